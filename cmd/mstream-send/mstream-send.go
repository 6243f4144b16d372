/*
UDP send side of the mstream demo pair: packetizes stdin lines and
sends them, optionally shuffled, to a receiver.
*/
package main

import "github.com/mstream-net/mstream/cmd/mstream-send/commands"

func main() {
	commands.Execute()
}
