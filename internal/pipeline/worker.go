package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/papervox/internal/library"
	"github.com/dgallion1/papervox/internal/parser"
	"github.com/dgallion1/papervox/internal/structure"
)

// Worker processes a single parse job.
type Worker struct {
	store      library.Store
	assembler  *structure.Assembler
	stats      *ParseStats
	log        *slog.Logger
	parserOpts parser.Options
}

func NewWorker(store library.Store, assembler *structure.Assembler, stats *ParseStats, log *slog.Logger, opts parser.Options) *Worker {
	return &Worker{
		store:      store,
		assembler:  assembler,
		stats:      stats,
		log:        log,
		parserOpts: opts,
	}
}

// Process runs extraction, structuring and storage for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()
	fail := func(phase, kind string, err error) {
		log.Error("parse failed", "phase", phase, "kind", kind, "error", err)
		job.Fail(phase, kind, err.Error())
		w.stats.Record(time.Since(start), kind)
	}

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	doc, err := Extract(job.Filename, job.FileData(), w.parserOpts)
	if err != nil {
		fail("extracting", KindOf(err), err)
		return
	}
	job.SetExtracted(doc.PageCount, len(doc.Lines()))
	log.Info("extracted document", "pages", doc.PageCount)

	if ctx.Err() != nil {
		fail("extracting", KindParsingFailed, ctx.Err())
		return
	}

	// Phase 2: Structure
	job.SetStatus(StatusStructuring, "structuring")
	p, st, err := w.assembler.Assemble(doc)
	if err != nil {
		fail("structuring", KindOf(err), err)
		return
	}
	p.Source.Hash = job.ContentHash
	job.SetStructured(st.Paragraphs, st.Headings, len(p.Sections), len(p.Sentences), len(p.Figures))
	log.Info("structured document",
		"title", p.Meta.Title,
		"body_font_size", st.BodyFontSize,
		"sections", len(p.Sections),
		"sentences", len(p.Sentences),
		"figures", len(p.Figures))

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	added, err := w.store.Add(ctx, p)
	if err != nil {
		fail("storing", KindStorage, err)
		return
	}
	if !added {
		log.Warn("pack id already in library", "pack_id", p.ID)
	}

	w.stats.Record(time.Since(start), "")
	job.Complete(p.ID, p.Meta.Title)
	log.Info("parse complete", "pack_id", p.ID, "duration_ms", time.Since(start).Milliseconds())
}
