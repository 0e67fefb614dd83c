package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"coup-table/internal/config"
)

var (
	writerMu sync.Mutex
	writer   io.Writer = os.Stdout
	closer   io.Closer
)

// Init installs the global zerolog logger. With LOG_FILE set, output is
// teed to a file that is truncated whenever it would grow past LOG_MAX_MB.
func Init(cfg config.LogConfig) error {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	var plain io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	var fileCloser io.Closer
	if cfg.File != "" {
		fw, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB)
		if err != nil {
			return err
		}
		out = io.MultiWriter(out, fw)
		plain = io.MultiWriter(plain, fw)
		fileCloser = fw
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger

	writerMu.Lock()
	defer writerMu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	writer, closer = plain, fileCloser
	return nil
}

// Writer is the destination for JSON logs written outside zerolog, such as
// HTTP request logs.
func Writer() io.Writer {
	writerMu.Lock()
	defer writerMu.Unlock()
	return writer
}

func Close() error {
	writerMu.Lock()
	defer writerMu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	writer = os.Stdout
	return err
}
