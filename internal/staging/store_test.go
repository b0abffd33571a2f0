package staging

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belegwerk/internal/domain"
)

func validStaged() domain.StagedImport {
	issue := time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 14)
	return domain.StagedImport{
		FileName: "rechnung.pdf",
		Document: domain.ParsedDocument{
			Type: domain.DocumentTypeInvoice,
			Fields: domain.ParsedFields{
				IssueDate: &issue,
				DueDate:   &due,
				Items: []domain.LineItem{
					{Description: "Beratung", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(100)},
				},
				Total: decimal.NewFromInt(119),
			},
			Confidence: domain.ConfidenceDeterministic,
		},
		Candidate: domain.CustomerMatchCandidate{
			Draft: &domain.CustomerBlock{Name: "ACME GmbH"},
		},
	}
}

func TestStore_StageAndGet(t *testing.T) {
	store := NewStore(time.Hour)

	id := store.Stage(validStaged())
	got, err := store.Get(id)
	require.NoError(t, err)

	assert.Equal(t, id, got.SessionID)
	assert.Equal(t, domain.ImportStateStaged, got.State)
	assert.True(t, got.ExpiresAt.After(got.CreatedAt))
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore(time.Hour)
	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(30 * time.Minute)
	base := time.Date(2025, 11, 24, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	id := store.Stage(validStaged())

	store.now = func() time.Time { return base.Add(31 * time.Minute) }
	_, err := store.Get(id)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	// The expired session is gone, not merely flagged.
	_, err = store.Get(id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_Reap(t *testing.T) {
	store := NewStore(10 * time.Minute)
	base := time.Date(2025, 11, 24, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	store.Stage(validStaged())
	store.Stage(validStaged())
	committing := store.Stage(validStaged())
	_, err := store.BeginCommit(committing)
	require.NoError(t, err)

	store.now = func() time.Time { return base.Add(time.Hour) }
	assert.Equal(t, 2, store.reap())
	assert.Equal(t, 1, store.Len())
}

func TestStore_CommitLifecycle(t *testing.T) {
	store := NewStore(time.Hour)
	id := store.Stage(validStaged())

	staged, err := store.BeginCommit(id)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStateCommitting, staged.State)

	// A second committer loses.
	_, err = store.BeginCommit(id)
	assert.ErrorIs(t, err, domain.ErrCommitConflict)

	store.FinishCommit(id, 42, nil)
	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStateCommitted, got.State)
	assert.Equal(t, int64(42), got.AssignedNumber)
	assert.Nil(t, got.FileBytes)
}

func TestStore_FailedCommitReturnsToStaged(t *testing.T) {
	store := NewStore(time.Hour)
	id := store.Stage(validStaged())

	_, err := store.BeginCommit(id)
	require.NoError(t, err)
	store.FinishCommit(id, 0, errors.New("db down"))

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStateStaged, got.State)

	// Retry works after the failure.
	_, err = store.BeginCommit(id)
	assert.NoError(t, err)
}

func TestStore_UpdateFrozenAfterCommit(t *testing.T) {
	store := NewStore(time.Hour)
	id := store.Stage(validStaged())
	_, err := store.BeginCommit(id)
	require.NoError(t, err)

	_, err = store.Update(id, domain.ParsedDocument{}, domain.CustomerMatchCandidate{})
	assert.ErrorIs(t, err, domain.ErrCommitConflict)
}

func TestStore_Cancel(t *testing.T) {
	store := NewStore(time.Hour)
	id := store.Stage(validStaged())

	require.NoError(t, store.Cancel(id))
	_, err := store.Get(id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_CancelCommitting(t *testing.T) {
	store := NewStore(time.Hour)
	id := store.Stage(validStaged())
	_, err := store.BeginCommit(id)
	require.NoError(t, err)

	assert.ErrorIs(t, store.Cancel(id), domain.ErrCommitConflict)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		staged := validStaged()
		assert.NoError(t, Validate(&staged))
	})

	t.Run("missing customer", func(t *testing.T) {
		staged := validStaged()
		staged.Candidate = domain.CustomerMatchCandidate{}
		err := Validate(&staged)
		require.ErrorIs(t, err, domain.ErrStagedInvalid)
		assert.Contains(t, err.Error(), "customer name is required")
	})

	t.Run("due before issue", func(t *testing.T) {
		staged := validStaged()
		early := staged.Document.Fields.IssueDate.AddDate(0, 0, -1)
		staged.Document.Fields.DueDate = &early
		err := Validate(&staged)
		require.ErrorIs(t, err, domain.ErrStagedInvalid)
		assert.Contains(t, err.Error(), "due date precedes issue date")
	})

	t.Run("unrecognized type", func(t *testing.T) {
		staged := validStaged()
		staged.Document.Type = domain.DocumentTypeUnrecognized
		assert.ErrorIs(t, Validate(&staged), domain.ErrStagedInvalid)
	})

	t.Run("collects all problems", func(t *testing.T) {
		staged := validStaged()
		staged.Candidate = domain.CustomerMatchCandidate{}
		staged.Document.Fields.Items = nil
		err := Validate(&staged)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "customer name is required")
		assert.Contains(t, err.Error(), "at least one line item is required")
	})

	t.Run("negative total", func(t *testing.T) {
		staged := validStaged()
		staged.Document.Fields.Total = decimal.NewFromInt(-5)
		err := Validate(&staged)
		require.ErrorIs(t, err, domain.ErrStagedInvalid)
		assert.Contains(t, err.Error(), "total must not be negative")
	})
}
