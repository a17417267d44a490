package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/itsmostafa/goshadow/internal/probe"
	"github.com/itsmostafa/goshadow/internal/render"
	"github.com/itsmostafa/goshadow/internal/shadow"
	"github.com/spf13/cobra"
)

var serveAddr string
var serveSelector string
var serveConfig string

var serveCmd = &cobra.Command{
	Use:   "serve <typst-file>",
	Short: "Serve the debug overlay over HTTP",
	Long: `Serve the shadow overlay for a Typst source file. The query and build
re-run on every request, so editing the source and refreshing the browser
shows the updated overlay without writing files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		geo, err := loadGeometry(serveConfig)
		if err != nil {
			return err
		}

		querier := probe.NewQuerier()
		querier.Selector = serveSelector

		s := &overlayServer{source: args[0], querier: querier, geo: geo}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/health", s.handleHealth)
		r.Get("/", s.handleOverlay)
		r.Get("/tree", s.handleTree)
		r.Get("/tree.json", s.handleTreeJSON)

		fmt.Fprintf(cmd.OutOrStdout(), "serving %s on http://%s\n", s.source, serveAddr)

		srv := &http.Server{
			Addr:         serveAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		}
		return srv.ListenAndServe()
	},
}

// overlayServer rebuilds the tree from a fresh query on every request.
// Each build is independent; there is no shared mutable state to guard.
type overlayServer struct {
	source  string
	querier *probe.Querier
	geo     shadow.Geometry
}

// rebuild runs the full acquisition and reconstruction pipeline once.
func (s *overlayServer) rebuild(r *http.Request) (*shadow.Node, shadow.Report, error) {
	probes, err := s.querier.Query(r.Context(), s.source)
	if err != nil {
		return nil, shadow.Report{}, err
	}
	root, report := shadow.Build(probes, s.geo)
	return root, report, nil
}

func (s *overlayServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *overlayServer) handleOverlay(w http.ResponseWriter, r *http.Request) {
	root, report, err := s.rebuild(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	byPage := shadow.GroupByPage(shadow.Collect(root))
	if err := render.Overlay(&buf, byPage, report.Pages, s.geo); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *overlayServer) handleTree(w http.ResponseWriter, r *http.Request) {
	root, _, err := s.rebuild(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, render.Tree(root))
}

func (s *overlayServer) handleTreeJSON(w http.ResponseWriter, r *http.Request) {
	root, _, err := s.rebuild(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(root)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8921", "Listen address")
	serveCmd.Flags().StringVar(&serveSelector, "selector", probe.DefaultSelector, "Probe label passed to typst query")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "YAML geometry config file")
	rootCmd.AddCommand(serveCmd)
}
