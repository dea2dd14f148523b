package whisper

import (
	"github.com/nguyentantai21042004/scribeflow/internal/config"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
	"github.com/nguyentantai21042004/scribeflow/pkg/executor"
)

type implEngine struct {
	binaryPath string
	modelsDir  string
	workDir    string
	executor   executor.Executor
	logger     logger.Logger
}

// New creates an Engine backed by the whisper.cpp CLI. Intermediate output is
// written under workDir.
func New(cfg config.WhisperConfig, workDir string, exec executor.Executor, log logger.Logger) Engine {
	return &implEngine{
		binaryPath: cfg.BinaryPath,
		modelsDir:  cfg.ModelsDir,
		workDir:    workDir,
		executor:   exec,
		logger:     log,
	}
}
