/*
UDP receive side of the mstream demo pair: reassembles packetized
messages and prints them in order.
*/
package main

import "github.com/mstream-net/mstream/cmd/mstream-recv/commands"

func main() {
	commands.Execute()
}
