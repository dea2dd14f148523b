package transcriber

import (
	"sync"

	"github.com/nguyentantai21042004/scribeflow/internal/config"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
	"github.com/nguyentantai21042004/scribeflow/internal/whisper"
	"github.com/nguyentantai21042004/scribeflow/pkg/executor"
)

type implRunner struct {
	cfg      *config.Config
	executor executor.Executor
	engine   whisper.Engine
	logger   logger.Logger

	mu     sync.Mutex
	active map[string]struct{}
}

// New creates a Runner that extracts audio with ffmpeg and transcribes it with engine.
func New(cfg *config.Config, exec executor.Executor, engine whisper.Engine, log logger.Logger) Runner {
	return &implRunner{
		cfg:      cfg,
		executor: exec,
		engine:   engine,
		logger:   log,
		active:   make(map[string]struct{}),
	}
}
