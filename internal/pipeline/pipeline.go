// Package pipeline orchestrates a document's processing run: segmentation,
// line item extraction, per-section clause extraction, validation, assembly,
// and library matching. One run owns a document exclusively via the lease on
// the document row; concurrent launch attempts fail cleanly.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/clauseflow/clauseflow/internal/clauses"
	"github.com/clauseflow/clauseflow/internal/documents"
	"github.com/clauseflow/clauseflow/internal/extraction"
	"github.com/clauseflow/clauseflow/internal/extractor"
	"github.com/clauseflow/clauseflow/internal/library"
	"github.com/clauseflow/clauseflow/internal/lineitems"
	"github.com/clauseflow/clauseflow/internal/sections"
	"github.com/clauseflow/clauseflow/internal/textindex"
)

// Runtime bundles the systems a pipeline run needs. Construct once at
// startup and share across runs; all state lives in the database.
type Runtime struct {
	Documents documents.System
	Sections  sections.System
	LineItems lineitems.System
	Clauses   clauses.System
	Library   library.System
	Extractor *extractor.Client
	Logger    *slog.Logger

	// MinGapLines is the coverage gap threshold for validation warnings.
	MinGapLines int

	// wg tracks background runs for orderly shutdown.
	wg sync.WaitGroup
}

// Launch implements documents.Processor: it claims the document's lease
// synchronously so callers get an immediate conflict, then processes in the
// background. The background run is detached from the request context.
func (rt *Runtime) Launch(ctx context.Context, id uuid.UUID) error {
	token, err := rt.Documents.AcquireLease(ctx, id)
	if err != nil {
		return err
	}

	rt.wg.Add(1)
	go func() {
		defer rt.wg.Done()
		rt.run(context.WithoutCancel(ctx), id, token)
	}()

	return nil
}

// Wait blocks until all in-flight runs finish. Called during shutdown.
func (rt *Runtime) Wait() {
	rt.wg.Wait()
}

// run executes the pipeline while holding the lease. Any failure transitions
// the document to error with the message retained; the service itself never
// goes down with a document.
func (rt *Runtime) run(ctx context.Context, id uuid.UUID, token uuid.UUID) {
	logger := rt.Logger.With("pipeline", id)

	if err := rt.process(ctx, logger, id, token); err != nil {
		if setErr := rt.Documents.SetError(ctx, id, err.Error(), token); setErr != nil {
			logger.Error("failed to record pipeline error", "error", setErr, "cause", err)
		}
		return
	}

	if err := rt.Documents.ReleaseLease(ctx, id, token); err != nil {
		logger.Error("failed to release lease", "error", err)
	}
}

func (rt *Runtime) process(ctx context.Context, logger *slog.Logger, id uuid.UUID, token uuid.UUID) error {
	doc, err := rt.Documents.Find(ctx, id)
	if err != nil {
		return err
	}

	idx, err := textindex.Index(doc.RawText)
	if err != nil {
		return fmt.Errorf("index document text: %w", err)
	}

	// Reprocessing wipes the previous derived record set.
	if err := rt.Clauses.DeleteByDocument(ctx, id); err != nil {
		return fmt.Errorf("clear previous clauses: %w", err)
	}
	if err := rt.Documents.ClearWarnings(ctx, id); err != nil {
		return err
	}

	var warnings []extraction.Warning

	if err := rt.Documents.SetStatus(ctx, id, documents.StatusSegmenting, token); err != nil {
		return err
	}

	persisted, segWarnings, err := rt.segment(ctx, id, idx)
	if err != nil {
		return err
	}
	warnings = append(warnings, segWarnings...)

	if err := rt.extractLineItems(ctx, logger, id, idx, persisted); err != nil {
		return err
	}

	if err := rt.Documents.SetStatus(ctx, id, documents.StatusExtracting, token); err != nil {
		return err
	}

	refs, err := rt.extractReferences(ctx, idx, persisted)
	if err != nil {
		return err
	}

	result, err := extraction.Validate(refs, idx.TotalLines, rt.MinGapLines)
	if err != nil {
		return fmt.Errorf("reference validation: %w", err)
	}
	warnings = append(warnings, result.Warnings...)

	if err := rt.Documents.SetStatus(ctx, id, documents.StatusMatching, token); err != nil {
		return err
	}

	batch, assembleWarnings, err := clauses.Assemble(id, result.Accepted, idx, spansOf(persisted))
	if err != nil {
		return fmt.Errorf("assemble clauses: %w", err)
	}
	warnings = append(warnings, assembleWarnings...)

	matchWarnings, err := rt.match(ctx, batch, result.Accepted)
	if err != nil {
		return err
	}
	warnings = append(warnings, matchWarnings...)

	if err := rt.Clauses.InsertBatch(ctx, id, batch); err != nil {
		return err
	}

	if err := rt.Documents.SaveWarnings(ctx, id, warnings); err != nil {
		return err
	}

	if err := rt.Documents.SetStatus(ctx, id, documents.StatusReady, token); err != nil {
		return err
	}

	logger.Info("pipeline complete",
		"clauses", len(batch),
		"sections", len(persisted),
		"warnings", len(warnings),
	)
	return nil
}

// segment runs the segmentation pass and persists the repaired boundaries.
func (rt *Runtime) segment(
	ctx context.Context,
	id uuid.UUID,
	idx *textindex.Indexed,
) ([]sections.Section, []extraction.Warning, error) {
	raw, err := rt.Extractor.Segment(ctx, idx.NumberedText, idx.TotalLines)
	if err != nil {
		return nil, nil, fmt.Errorf("segmentation pass: %w", err)
	}

	validated, warnings := extraction.ValidateSections(raw, idx.TotalLines)

	persisted, err := rt.Sections.ReplaceBatch(ctx, id, validated)
	if err != nil {
		return nil, nil, err
	}

	return persisted, warnings, nil
}

// extractLineItems pulls line item metadata from the header section, when
// one exists. A document without a header simply has no line items.
func (rt *Runtime) extractLineItems(
	ctx context.Context,
	logger *slog.Logger,
	id uuid.UUID,
	idx *textindex.Indexed,
	secs []sections.Section,
) error {
	header := findHeader(secs)
	if header == nil {
		return rt.LineItems.ReplaceBatch(ctx, id, nil)
	}

	numbered, err := idx.NumberedRange(header.StartLine, header.EndLine)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}

	raw, err := rt.Extractor.ExtractLineItems(ctx, numbered)
	if err != nil {
		return fmt.Errorf("line item extraction: %w", err)
	}

	items := make([]lineitems.LineItem, 0, len(raw))
	for _, r := range raw {
		if r.LineNumber <= 0 {
			logger.Warn("dropped line item with invalid number", "line_number", r.LineNumber)
			continue
		}
		sectionID := header.ID
		items = append(items, lineitems.LineItem{
			SectionID:    &sectionID,
			LineNumber:   r.LineNumber,
			PartNumber:   r.PartNumber,
			Description:  r.Description,
			Quantity:     r.Quantity,
			QualityLevel: r.QualityLevel,
		})
	}

	return rt.LineItems.ReplaceBatch(ctx, id, items)
}

// extractReferences runs clause extraction per section, concurrently up to
// the extractor's limit, and merges the results in section order. Header
// sections are skipped: their content is administrative and already mined
// for line items. With no sections at all, the whole document is one pass.
func (rt *Runtime) extractReferences(
	ctx context.Context,
	idx *textindex.Indexed,
	secs []sections.Section,
) ([]extraction.RawReference, error) {
	targets := make([]sections.Section, 0, len(secs))
	for _, sec := range secs {
		if sec.SectionType == "header" || sec.SectionType == "signature" {
			continue
		}
		targets = append(targets, sec)
	}

	if len(targets) == 0 {
		return rt.Extractor.ExtractClauses(ctx, idx.NumberedText)
	}

	results := make([][]extraction.RawReference, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.Extractor.MaxConcurrent())

	for i, sec := range targets {
		g.Go(func() error {
			numbered, err := idx.NumberedRange(sec.StartLine, sec.EndLine)
			if err != nil {
				return fmt.Errorf("section %q range: %w", sec.Title, err)
			}

			refs, err := rt.Extractor.ExtractClauses(gctx, numbered)
			if err != nil {
				return fmt.Errorf("clause extraction for section %q: %w", sec.Title, err)
			}

			results[i] = refs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []extraction.RawReference
	for _, refs := range results {
		merged = append(merged, refs...)
	}
	return merged, nil
}

// match verifies each assembled clause against the reference library.
// Accepted references and assembled clauses correspond by index; the
// reference carries the cited revision and effective date the clause entity
// does not store. Mismatches become persisted warnings.
func (rt *Runtime) match(
	ctx context.Context,
	batch []clauses.Clause,
	refs []extraction.Reference,
) ([]extraction.Warning, error) {
	matcher := library.NewMatcher(rt.Library)
	var warnings []extraction.Warning

	for i := range batch {
		if batch[i].ChunkType != clauses.ChunkClause {
			continue
		}

		result, err := matcher.Match(ctx, library.MatchInput{
			ClauseCode:    batch[i].ClauseCode,
			Text:          batch[i].Text,
			Revision:      refs[i].Revision,
			EffectiveDate: refs[i].EffectiveDate,
			IsExternalRef: batch[i].IsExternalRef,
		})
		if err != nil {
			return nil, fmt.Errorf("match clause %q: %w", batch[i].ClauseCode, err)
		}

		batch[i].MatchStatus = result.Status
		batch[i].MatchDetail = result.Detail

		if result.Status == library.StatusMismatched {
			warnings = append(warnings, extraction.Warning{
				Kind:      extraction.WarnMismatch,
				Detail:    fmt.Sprintf("clause %s: %s", batch[i].ClauseCode, result.Detail),
				StartLine: batch[i].StartLine,
				EndLine:   batch[i].EndLine,
			})
		}
	}

	return warnings, nil
}

func spansOf(secs []sections.Section) []clauses.SectionSpan {
	spans := make([]clauses.SectionSpan, len(secs))
	for i, sec := range secs {
		spans[i] = clauses.SectionSpan{
			ID:             sec.ID,
			StartLine:      sec.StartLine,
			EndLine:        sec.EndLine,
			SectionType:    sec.SectionType,
			LineItemNumber: sec.LineItemNumber,
		}
	}
	return spans
}

func findHeader(secs []sections.Section) *sections.Section {
	for i := range secs {
		if secs[i].SectionType == "header" {
			return &secs[i]
		}
	}
	return nil
}
