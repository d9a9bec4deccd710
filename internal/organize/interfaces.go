package organize

import (
	"context"

	"github.com/parafile/parafile/internal/extract"
	"github.com/parafile/parafile/internal/model"
)

// Classifier defines the contract for assigning a document to a category.
type Classifier interface {
	Classify(ctx context.Context, text string, categories []model.Category) (model.ClassificationResult, error)
}

// ValueExtractor defines the contract for resolving one naming pattern
// placeholder from document text.
type ValueExtractor interface {
	ExtractValue(ctx context.Context, text string, variable model.Variable, category model.Category) (string, error)
}

// TextExtractor defines the contract for turning files into text.
type TextExtractor interface {
	Supported(ext string) bool
	Extensions() []string
	Extract(path string) (extract.Result, error)
}
