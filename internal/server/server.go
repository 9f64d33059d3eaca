package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/feed-ration/internal/config"
	"github.com/iwvelando/feed-ration/internal/metrics"
	"github.com/iwvelando/feed-ration/internal/optimizer"
	"github.com/iwvelando/feed-ration/pkg/constants"
	"github.com/iwvelando/feed-ration/pkg/optimization"
	"github.com/iwvelando/feed-ration/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger   *zap.Logger
	conf     *Config
	version  string
	recorder metrics.Recorder
}

// NewHandler constructs the HTTP handler that serves the ration API. A nil
// conf takes DefaultConfig. When m is non-nil its registry is served at
// conf.MetricsPath.
func NewHandler(logger *zap.Logger, conf *Config, version string, m *metrics.Metrics) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		conf = DefaultConfig()
	}
	version = strings.TrimSpace(version)
	if version == "" {
		version = "dev"
	}

	h := &handler{logger: logger, conf: conf, version: version, recorder: metrics.Nop{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/optimize", h.optimizeWith("server.handleOptimize", decodeUpload))
	mux.HandleFunc("/api/editor/optimize", h.optimizeWith("server.handleOptimizeEditor", decodeEditor))
	mux.HandleFunc("/api/editor/export", onlyMethod(http.MethodPost, h.handleConfigExport))
	mux.HandleFunc("/api/version", onlyMethod(http.MethodGet, h.handleVersion))

	if m != nil {
		h.recorder = m
		path := conf.MetricsPath
		if path == "" {
			path = constants.DefaultMetricsPath
		}
		mux.Handle(path, m.Handler())
	}

	return mux
}

type optimizeResponse struct {
	RunID      string                 `json:"runId"`
	Summary    optimization.Summary   `json:"summary"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

// runFile is a submitted run file both as YAML and as the generic document
// it was read from, which is echoed back to the editor.
type runFile struct {
	yaml []byte
	doc  map[string]interface{}
}

// requestError is a failure with the status it is reported under.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func rejected(err error) error {
	return &requestError{status: http.StatusUnprocessableEntity, msg: fmt.Sprintf("ration rejected: %v", err)}
}

func onlyMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

// optimizeWith serves an optimize endpoint whose request body decode turns
// into a run file.
func (h *handler) optimizeWith(op string, decode func(*http.Request) (*runFile, error)) http.HandlerFunc {
	return onlyMethod(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r.Body = http.MaxBytesReader(w, r.Body, h.conf.UploadSizeBytes())

		run, err := decode(r)
		if err != nil {
			h.fail(w, op, err)
			return
		}
		resp, err := h.optimize(run, start, op)
		if err != nil {
			h.fail(w, op, err)
			return
		}
		h.writeJSON(w, http.StatusOK, resp)
	})
}

// multipartMemory is how much of an upload is held in memory before
// spilling to temporary files.
const multipartMemory = 1 << 20

func decodeUpload(r *http.Request) (*runFile, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, badRequest("failed to parse upload: %v", err)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, badRequest("missing configuration file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	doc := map[string]interface{}{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, badRequest("error reading config data, %v", err)
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
	}
	return &runFile{yaml: data, doc: doc}, nil
}

// decodeEditor accepts the run file as a JSON document, optionally wrapped
// as {"config": {...}}.
func decodeEditor(r *http.Request) (*runFile, error) {
	doc, err := decodeJSONDocument(r.Body)
	if err != nil {
		return nil, err
	}
	if wrapped, ok := doc["config"]; ok {
		inner, ok := wrapped.(map[string]interface{})
		if !ok {
			return nil, badRequest("invalid config payload: expected object")
		}
		doc = inner
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, badRequest("failed to encode configuration: %v", err)
	}
	return &runFile{yaml: data, doc: doc}, nil
}

func decodeJSONDocument(body io.Reader) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, badRequest("failed to decode configuration: %v", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return doc, nil
}

// optimize applies the server limits and defaults to the run file and runs
// it. Rejections before solving are returned as 422 errors.
func (h *handler) optimize(run *runFile, start time.Time, op string) (*optimizeResponse, error) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(run.yaml))
	if err != nil {
		return nil, badRequest("%v", err)
	}
	if err := h.conf.ApplyTo(cfg); err != nil {
		h.recorder.RecordRejection(cfg.Ration.AnimalType, time.Since(start))
		return nil, rejected(err)
	}

	warnings := cfg.ValidateConfiguration()

	runner, err := optimizer.NewRunner(h.logger, cfg, h.recorder)
	if err != nil {
		return nil, badRequest("failed to initialize optimizer: %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		return nil, rejected(err)
	}
	warnings = append(warnings, result.Warnings...)

	summary := result.Summary()
	csvData, err := output.CsvString(summary)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	h.logger.Info("ration request served",
		zap.String("op", op),
		zap.String("runId", result.RunID),
		zap.String("status", summary.Status),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	return &optimizeResponse{
		RunID:      result.RunID,
		Summary:    summary,
		CSV:        csvData,
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     run.doc,
		ConfigYAML: string(run.yaml),
	}, nil
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	r.Body = http.MaxBytesReader(w, r.Body, h.conf.UploadSizeBytes())
	doc, err := decodeJSONDocument(r.Body)
	if err != nil {
		h.fail(w, op, err)
		return
	}
	node, err := runFileNode(doc)
	if err != nil {
		h.fail(w, op, badRequest("failed to encode configuration: %v", err))
		return
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		h.fail(w, op, badRequest("failed to encode configuration: %v", err))
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"configYaml": string(data)})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// runFileSections is the order sections take in an exported run file. Any
// other key follows them alphabetically.
var runFileSections = map[string]int{
	"logging":      0,
	"output":       1,
	"optimizer":    2,
	"catalog":      3,
	"requirements": 4,
	"ration":       5,
}

func sectionRank(key string) int {
	if rank, ok := runFileSections[key]; ok {
		return rank
	}
	return len(runFileSections)
}

func runFileNode(doc map[string]interface{}) (*yaml.Node, error) {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := sectionRank(keys[i]), sectionRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range keys {
		value := &yaml.Node{}
		if err := value.Encode(doc[key]); err != nil {
			return nil, fmt.Errorf("section %q: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
	}
	return node, nil
}

// fail reports err as JSON. Client errors are logged at warn level.
func (h *handler) fail(w http.ResponseWriter, op string, err error) {
	status, msg := http.StatusInternalServerError, err.Error()

	var reqErr *requestError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &reqErr):
		status = reqErr.status
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
		msg = fmt.Sprintf("upload exceeds limit of %d bytes", tooLarge.Limit)
	}

	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log("ration request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
