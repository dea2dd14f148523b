package formalizer

import (
	"github.com/nguyentantai21042004/scribeflow/internal/job"
	"github.com/nguyentantai21042004/scribeflow/internal/llm"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

type implPipeline struct {
	provider llm.Provider
	logger   logger.Logger
	active   *job.Semaphore
}

// New creates a Pipeline that sends every completion request to provider.
func New(provider llm.Provider, log logger.Logger) Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &implPipeline{
		provider: provider,
		logger:   log,
		active:   job.NewSemaphore(1),
	}
}
