package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/phonomidi/codec"
	"github.com/jsphweid/phonomidi/config"
	"github.com/jsphweid/phonomidi/decoder"
	"github.com/jsphweid/phonomidi/metrics"
	"github.com/jsphweid/phonomidi/model"
	"github.com/jsphweid/phonomidi/phoneme"
	"github.com/jsphweid/phonomidi/store"
	"github.com/jsphweid/phonomidi/util"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// Server holds everything the HTTP handlers need. It is built once and only
// read afterwards, apart from the rate limiters' own bookkeeping.
type Server struct {
	codec     *codec.Codec
	local     *store.Local
	mirror    store.Mirror
	janitor   *store.Janitor
	metrics   *metrics.Metrics
	limits    config.LimitsConfig
	origins   []string
	limiter   *clientLimiter
	downloads *clientLimiter
	now       func() time.Time
}

type ServerOption func(*Server)

func WithMirror(m store.Mirror) ServerOption {
	return func(s *Server) { s.mirror = m }
}

func WithJanitor(j *store.Janitor) ServerOption {
	return func(s *Server) { s.janitor = j }
}

func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

func NewServer(c *codec.Codec, cfg *config.Config, opts ...ServerOption) *Server {
	s := &Server{
		codec:     c,
		local:     store.NewLocal(cfg.Outputs.Dir),
		limits:    cfg.Limits,
		origins:   cfg.Server.CORSOrigins,
		limiter:   newClientLimiter(cfg.Server.RateLimit),
		downloads: newClientLimiter(cfg.Server.DownloadRateLimit),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.DefaultMetrics()
	}
	return s
}

// Router wires the routes behind CORS, tracing and request metrics.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Handle("/encode", s.limiter.wrap(http.HandlerFunc(s.HandleEncode))).Methods(http.MethodPost)
	router.Handle("/decode", s.limiter.wrap(http.HandlerFunc(s.HandleDecode))).Methods(http.MethodPost)
	router.Handle("/download/{path:.*}", s.downloads.wrap(http.HandlerFunc(s.HandleDownload))).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.HandleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.Use(mux.MiddlewareFunc(metrics.Middleware(s.metrics, routeName)))

	return cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
	}).Handler(router)
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("could not write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Error: detail})
}

// noteResults pairs every melody note with the phoneme at the same index.
// The arpeggio notes shift the pairing, which clients already account for.
func noteResults(melody model.Notes, phonemes []string) []model.NoteResult {
	res := make([]model.NoteResult, 0, len(melody))
	var current float64
	for i, n := range melody {
		p := ""
		if i < len(phonemes) {
			p = phonemes[i]
		}
		res = append(res, model.NoteResult{
			Pitch:    n.Pitch,
			Duration: n.Duration,
			Velocity: n.Velocity,
			Time:     current,
			Phoneme:  p,
		})
		current += n.Duration
	}
	return res
}

func stripAll(tokens []model.PhonemeToken) []string {
	res := make([]string, 0, len(tokens))
	for _, t := range tokens {
		res = append(res, phoneme.StripStress(t))
	}
	return res
}

func (s *Server) HandleEncode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body model.EncodeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	text, err := cleanText(body.Text, s.limits.MaxTextLength)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, span := metrics.StartSpan(ctx, "encode")
	defer span.End()

	path := s.local.NewOutputPath(s.now())
	enc, err := s.codec.EncodeFile(text, path)
	s.metrics.RecordEncode(ctx, len(enc.Notes), err)
	if err != nil {
		slog.Error("encoding failed", "err", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Encoding failed: %s", err))
		return
	}
	s.mirrorFile(ctx, path)
	if s.janitor != nil {
		s.janitor.Poke()
	}

	melody := enc.Score.Melody.Events()
	phonemes := stripAll(enc.Phonemes)
	midiFile := filepath.ToSlash(path)
	writeJSON(w, http.StatusOK, model.EncodeResponse{
		Success:   true,
		IPA:       enc.IPA,
		NoteCount: len(melody),
		MidiFile:  midiFile,
		Notes:     noteResults(melody, phonemes),
		Phonemes:  phonemes,
		Message:   "Successfully encoded text to " + midiFile,
	})
}

// mirrorFile uploads an encoded file when a mirror is configured. Failures
// are logged and never fail the request.
func (s *Server) mirrorFile(ctx context.Context, path string) {
	if s.mirror == nil {
		return
	}
	key, err := filepath.Rel(s.local.Dir(), path)
	if err != nil {
		key = filepath.Base(path)
	}
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("could not open file for mirroring", "path", path, "err", err)
		return
	}
	defer f.Close()

	location, err := s.mirror.Upload(ctx, filepath.ToSlash(key), f)
	if err != nil {
		slog.Warn("mirror upload failed", "path", path, "err", err)
		return
	}
	slog.Debug("mirrored encoded file", "path", path, "location", location)
}

func (s *Server) HandleDecode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	maxSize := s.limits.MaxFileSize
	tooLarge := fmt.Sprintf("File too large (max %dMB)", maxSize/(1024*1024))

	// room for the multipart framing around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	if !util.IsMidiPath(header.Filename) {
		writeError(w, http.StatusBadRequest, "Invalid file format. Must be .mid or .midi")
		return
	}
	if header.Size > maxSize {
		writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}

	ctx, span := metrics.StartSpan(ctx, "decode")
	defer span.End()

	text, err := s.codec.DecodeReader(file)
	s.metrics.RecordDecode(ctx, len(decoder.SplitWords(text)), err)
	if err != nil {
		slog.Error("decoding failed", "file", header.Filename, "err", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Decoding failed: %s", err))
		return
	}

	writeJSON(w, http.StatusOK, model.DecodeResponse{
		Success:     true,
		DecodedText: text,
		Message:     "Successfully decoded MIDI file",
	})
}

func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	path, err := s.local.Resolve(mux.Vars(r)["path"])
	if err != nil {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:         "ok",
		Words:          s.codec.Dictionary().Len(),
		Pronunciations: s.codec.Reverse().Len(),
	})
}

// clientLimiter keeps one token bucket per client IP. A zero rate per
// minute disables limiting. A bucket left idle for a minute is full again,
// so it is dropped and recreated on the next request.
type clientLimiter struct {
	perMinute int
	now       func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastPrune time.Time
}

type clientBucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newClientLimiter(perMinute int) *clientLimiter {
	return &clientLimiter{perMinute: perMinute, now: time.Now, clients: make(map[string]*clientBucket)}
}

func (l *clientLimiter) allow(client string) bool {
	if l.perMinute <= 0 {
		return true
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastPrune) >= time.Minute {
		l.prune(now)
	}
	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)}
		l.clients[client] = b
	}
	b.seen = now
	return b.limiter.AllowN(now, 1)
}

// prune must be called with mu held.
func (l *clientLimiter) prune(now time.Time) {
	for client, b := range l.clients {
		if now.Sub(b.seen) >= time.Minute {
			delete(l.clients, client)
		}
	}
	l.lastPrune = now
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (l *clientLimiter) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, fmt.Sprintf("Rate limit exceeded: %d per 1 minute", l.perMinute))
			return
		}
		next.ServeHTTP(w, r)
	})
}
