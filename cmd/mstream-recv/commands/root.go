package commands

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mstream-net/mstream/pkg/loss"
	"github.com/mstream-net/mstream/pkg/receiver"
	"github.com/mstream-net/mstream/pkg/seq"
)

var (
	log = logrus.New()

	addr     string
	destID   uint32
	startSeq uint32
	httpAddr string
	debug    bool
)

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", ":9810", "UDP address to listen on")
	rootCmd.Flags().Uint32Var(&destID, "dest-id", 0, "destination socket ID to accept packets for")
	rootCmd.Flags().Uint32Var(&startSeq, "start-seq", 0, "first expected sequence number")
	rootCmd.Flags().StringVar(&httpAddr, "http", "", "expose a status endpoint on this address")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   "mstream-recv",
	Short: "Reassembles mstream messages from UDP and prints them in order",
	Run: func(_ *cobra.Command, _ []string) {
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
			log.SetLevel(logrus.DebugLevel)
		}

		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			log.WithError(err).Fatalln("failed to bind UDP port")
		}

		r := receiver.New(conn, destID, seq.Num(startSeq), log)
		defer r.Close() // nolint: errcheck

		if httpAddr != "" {
			log.Infof("serving status HTTP on '%s'", httpAddr)
			go func() {
				if err := http.ListenAndServe(httpAddr, statusRouter(r)); err != nil {
					log.WithError(err).Fatalln("status endpoint exited")
				}
			}()
		}

		log.Infof("listening on '%s', destination ID %d", addr, destID)
		for msg := range r.Messages() {
			fmt.Println(string(msg))
		}

		if err := r.Err(); err != nil {
			log.WithError(err).Fatalln("receive path failed")
		}
	},
}

type status struct {
	NextRelease uint32       `json:"next_release"`
	Buffered    int          `json:"buffered"`
	Missing     []loss.Range `json:"missing"`
}

func statusRouter(r *receiver.Receiver) http.Handler {
	mux := chi.NewRouter()
	mux.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		s := status{
			NextRelease: uint32(r.NextRelease()),
			Buffered:    r.Buffered(),
			Missing:     r.Missing(),
		}
		if err := json.NewEncoder(w).Encode(s); err != nil {
			log.WithError(err).Warn("failed to encode status")
		}
	})
	return mux
}

// Execute executes root CLI command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
