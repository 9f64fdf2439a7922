package source

import (
	"context"

	"github.com/steph544/compliance-app-sub001/internal/catalog"
	"github.com/steph544/compliance-app-sub001/internal/logging"
)

type Fetcher interface {
	Fetch(ctx context.Context, log logging.InternalLogger) (*catalog.Bundle, error)
}
