package main

import (
	"net/http"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var addr string

var rootCmd = &cobra.Command{
	Use:   "prefixindex-api",
	Short: "Demo HTTP server over an in-memory prefix search index",
	Long:  `prefixindex-api serves a small book catalog through search, exact-search, highlight and rebuild endpoints backed by internal/index.PrefixIndex.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ht := NewHTTP()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", ht.Search)
	mux.HandleFunc("/all", ht.All)
	mux.HandleFunc("/highlight", ht.Highlight)
	mux.HandleFunc("/create-index", ht.CreateIndex)
	mux.HandleFunc("/health", ht.Health)
	mux.HandleFunc("/stats", ht.Stats)

	charmlog.Info("starting server", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		charmlog.Fatal(err)
	}
}
