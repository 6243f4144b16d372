package commands

import (
	"bufio"
	"fmt"
	"math/rand"
	"net"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mstream-net/mstream/pkg/packet"
	"github.com/mstream-net/mstream/pkg/seq"
)

var (
	log = logrus.New()

	addr        string
	destID      uint32
	startSeq    uint32
	payloadSize int
	shuffle     bool
)

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9810", "UDP address to send to")
	rootCmd.Flags().Uint32Var(&destID, "dest-id", 0, "destination socket ID to stamp packets with")
	rootCmd.Flags().Uint32Var(&startSeq, "start-seq", 0, "first sequence number")
	rootCmd.Flags().IntVar(&payloadSize, "payload-size", 16, "max payload bytes per packet")
	rootCmd.Flags().BoolVar(&shuffle, "shuffle", false, "send each message's packets out of order")
}

var rootCmd = &cobra.Command{
	Use:   "mstream-send",
	Short: "Packetizes stdin lines and sends them over UDP",
	Run: func(_ *cobra.Command, _ []string) {
		conn, err := net.Dial("udp", addr)
		if err != nil {
			log.WithError(err).Fatalln("failed to dial UDP")
		}
		defer conn.Close() // nolint: errcheck

		next := seq.Num(startSeq)
		var msgNum uint32

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			msg := append([]byte(nil), scanner.Bytes()...)
			packets := packet.Split(msg, next, msgNum, destID, payloadSize)
			next = next.Add(uint32(len(packets)))
			msgNum++

			if shuffle {
				rand.Shuffle(len(packets), func(i, j int) {
					packets[i], packets[j] = packets[j], packets[i]
				})
			}

			for _, p := range packets {
				log.Debugf("sending %s", p)
				if _, err := conn.Write(p.Marshal()); err != nil {
					log.WithError(err).Fatalln("send failed")
				}
			}
		}

		if err := scanner.Err(); err != nil {
			log.WithError(err).Fatalln("reading stdin failed")
		}
	},
}

// Execute executes root CLI command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
