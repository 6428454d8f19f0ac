package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenValidatesConfig(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestInsertAndListMasters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.InsertAttributeMaster(ctx, attribute.Master{
		Name:             "User Profile",
		ExtractionPrompt: "extract profile",
		JudgmentPrompt:   "judge profile",
	})
	require.NoError(t, err)

	second, err := s.InsertAttributeMaster(ctx, attribute.Master{
		Name:             "Expertise & Skills",
		ExtractionPrompt: "extract skills",
		JudgmentPrompt:   "judge skills",
	})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	masters, err := s.AttributeMasters(ctx)
	require.NoError(t, err)
	require.Len(t, masters, 2)
	assert.Equal(t, "User Profile", masters[0].Name)
	assert.Equal(t, "Expertise & Skills", masters[1].Name)
	assert.Equal(t, first, masters[0].ID)
}

func TestInsertMasterRejectsInvalid(t *testing.T) {
	s := newTestStore(t)

	_, err := s.InsertAttributeMaster(context.Background(), attribute.Master{Name: "incomplete"})
	require.Error(t, err)

	var re *RepositoryError
	assert.ErrorAs(t, err, &re)
}

func TestUpdateAndDeleteMaster(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.InsertAttributeMaster(ctx, attribute.Master{
		Name:             "User Profile",
		ExtractionPrompt: "e",
		JudgmentPrompt:   "j",
	})
	require.NoError(t, err)

	err = s.UpdateAttributeMaster(ctx, attribute.Master{
		ID:               id,
		Name:             "Profile",
		ExtractionPrompt: "e2",
		JudgmentPrompt:   "j2",
	})
	require.NoError(t, err)

	got, err := s.AttributeMaster(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Profile", got.Name)
	assert.Equal(t, "e2", got.ExtractionPrompt)

	require.NoError(t, s.DeleteAttributeMaster(ctx, id))

	err = s.DeleteAttributeMaster(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordsAndLatestContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.InsertAttributeMaster(ctx, attribute.Master{
		Name:             "User Profile",
		ExtractionPrompt: "e",
		JudgmentPrompt:   "j",
	})
	require.NoError(t, err)

	// No records yet: absent, not an error.
	_, ok, err := s.LatestAttributeContent(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	seq1, err := s.InsertAttributeRecord(ctx, attribute.Record{AttributeID: id, Content: "engineer"})
	require.NoError(t, err)
	seq2, err := s.InsertAttributeRecord(ctx, attribute.Record{AttributeID: id, Content: "senior engineer"})
	require.NoError(t, err)
	assert.Greater(t, seq2, seq1)

	content, ok, err := s.LatestAttributeContent(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "senior engineer", content)

	records, err := s.AttributeRecords(ctx, id)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "senior engineer", records[0].Content)
	assert.Equal(t, "engineer", records[1].Content)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestInsertRecordRejectsEmptyContent(t *testing.T) {
	s := newTestStore(t)

	_, err := s.InsertAttributeRecord(context.Background(), attribute.Record{AttributeID: 1})
	require.Error(t, err)

	var re *RepositoryError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "insert_record", re.Op)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	masters, err := s.AttributeMasters(ctx)
	require.NoError(t, err)
	require.Len(t, masters, 4)
	assert.Equal(t, "User Profile", masters[0].Name)
	assert.Equal(t, "Past Decisions & Policies", masters[3].Name)
}
