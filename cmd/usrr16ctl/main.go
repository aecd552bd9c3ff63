// Command usrr16ctl switches and inspects the relays of a USR-R16 board.
package main

import "github.com/arloliu/go-usrr16/cmd/usrr16ctl/cli"

func main() {
	cli.Execute()
}
