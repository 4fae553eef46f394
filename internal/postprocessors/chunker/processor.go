// Package chunker provides a size-bounded text chunking processor.
//
// Chunks never split a UTF-8 sequence and prefer to end after whitespace,
// so highlight offsets computed on a chunk stay valid when shifted by the
// chunk's Offset into the document content.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// DefaultChunkSize is the default maximum number of bytes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping bytes.
const DefaultChunkOverlap = 200

const breakChars = " \t\r\n"

// Processor splits document content into bounded chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	content := doc.Content
	if content == "" {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(content)/(p.chunkSize-p.overlap)+1)

	for start := 0; start < len(content); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := p.chunkEnd(content, start)
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Content:    content[start:end],
			Position:   len(chunks),
			Offset:     start,
			Metadata:   make(map[string]any),
		})

		if end == len(content) {
			break
		}
		start = p.nextStart(content, start, end)
	}

	return chunks, nil
}

// chunkEnd returns where the chunk beginning at start ends.
func (p *Processor) chunkEnd(content string, start int) int {
	end := start + p.chunkSize
	if end >= len(content) {
		return len(content)
	}

	for end > start && !utf8.RuneStart(content[end]) {
		end--
	}
	if end == start {
		// A single rune wider than the chunk size.
		_, w := utf8.DecodeRuneInString(content[start:])
		return start + w
	}

	// Break after whitespace in the second half of the chunk when possible.
	half := start + (end-start)/2
	if i := strings.LastIndexAny(content[half:end], breakChars); i >= 0 {
		return half + i + 1
	}
	return end
}

// nextStart returns where the chunk after [start, end) begins. It always
// advances past start.
func (p *Processor) nextStart(content string, start, end int) int {
	next := end - p.overlap
	if next <= start {
		return end
	}

	for next < end && !utf8.RuneStart(content[next]) {
		next++
	}

	// Start the overlap at a word when one begins inside it.
	if i := strings.IndexAny(content[next:end], breakChars); i >= 0 && next+i+1 < end {
		next += i + 1
	}
	return next
}
