package reviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/veridia/clauseguard/pkg/pagination"
	"github.com/veridia/clauseguard/pkg/query"
	"github.com/veridia/clauseguard/pkg/repository"
	"github.com/veridia/clauseguard/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a review repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "reviews"),
		pagination: pagination,
	}
}

func (r *repo) Handler(trigger Trigger, playbookVersion string, maxUploadSize int64) *Handler {
	return NewHandler(r, r.storage, trigger, r.logger, r.pagination, playbookVersion, maxUploadSize)
}

const reviewColumns = `id, status, context_json, doc_filename, doc_mime, doc_size_bytes, doc_sha256, doc_storage_key, doc_page_count, decision, summary_json, error_message, created_at, updated_at`

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Review], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "DocFilename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReview)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Review, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	review, err := repository.QueryOne(ctx, r.db, q, args, scanReview)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &review, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Review, error) {
	contextJSON, err := marshalContext(cmd.Context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}

	q := fmt.Sprintf(`
		INSERT INTO reviews(id, status, context_json)
		VALUES ($1, $2, $3)
		RETURNING %s`, reviewColumns)

	review, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Review, error) {
		return repository.QueryOne(ctx, tx, q, []any{uuid.New(), StatusCreated, contextJSON}, scanReview)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("review created", "id", review.ID)
	return &review, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	review, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM reviews WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if review.DocStorageKey != nil {
		if delErr := r.storage.Delete(ctx, *review.DocStorageKey); delErr != nil {
			r.logger.Warn(
				"blob delete failed after DB delete",
				"key", *review.DocStorageKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("review deleted", "id", id)
	return nil
}

func (r *repo) AttachDocument(ctx context.Context, id uuid.UUID, cmd AttachDocumentCommand) (*Review, error) {
	review, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := Transition(review.Status, StatusUploaded); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE reviews
		SET status = $2,
			doc_filename = $3,
			doc_mime = $4,
			doc_size_bytes = $5,
			doc_sha256 = $6,
			doc_storage_key = $7,
			doc_page_count = $8,
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, reviewColumns)

	args := []any{
		id,
		StatusUploaded,
		cmd.Filename,
		cmd.Mime,
		cmd.SizeBytes,
		cmd.SHA256,
		cmd.StorageKey,
		cmd.PageCount,
	}

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Review, error) {
		return repository.QueryOne(ctx, tx, q, args, scanReview)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document attached", "id", id, "filename", cmd.Filename)
	return &updated, nil
}

func (r *repo) Start(ctx context.Context, id uuid.UUID) (*Review, error) {
	review, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if review.DocStorageKey == nil || review.DocMime == nil {
		return nil, ErrNoDocument
	}
	if err := Transition(review.Status, StatusProcessing); err != nil {
		return nil, err
	}

	updated, err := r.setStatus(ctx, id, StatusProcessing)
	if err != nil {
		return nil, err
	}

	r.logger.Info("review started", "id", id)
	return updated, nil
}

func (r *repo) SetCompleted(ctx context.Context, id uuid.UUID, decision string, summary []byte) error {
	review, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := Transition(review.Status, StatusCompleted); err != nil {
		return err
	}

	q := `
		UPDATE reviews
		SET status = $2, decision = $3, summary_json = $4, error_message = NULL, updated_at = now()
		WHERE id = $1`

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		_, execErr := tx.ExecContext(ctx, q, id, StatusCompleted, decision, summary)
		return struct{}{}, execErr
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("review completed", "id", id, "decision", decision)
	return nil
}

// SetFailed records the failure message and moves the review to FAILED. A
// review already in a terminal state keeps its status; only the message is
// recorded, since the failure handler may race a prior failure.
func (r *repo) SetFailed(ctx context.Context, id uuid.UUID, message string) error {
	review, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	status := review.Status
	if err := Transition(review.Status, StatusFailed); err == nil {
		status = StatusFailed
	}

	q := `
		UPDATE reviews
		SET status = $2, error_message = $3, updated_at = now()
		WHERE id = $1`

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		_, execErr := tx.ExecContext(ctx, q, id, status, message)
		return struct{}{}, execErr
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Warn("review failed", "id", id, "error", message)
	return nil
}

func (r *repo) setStatus(ctx context.Context, id uuid.UUID, status Status) (*Review, error) {
	q := fmt.Sprintf(`
		UPDATE reviews
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, reviewColumns)

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Review, error) {
		return repository.QueryOne(ctx, tx, q, []any{id, status}, scanReview)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &updated, nil
}

func marshalContext(context map[string]string) ([]byte, error) {
	if context == nil {
		return nil, nil
	}
	return json.Marshal(context)
}
