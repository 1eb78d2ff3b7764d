package doctor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeecare/hospital-api/internal/model"
	"github.com/zeecare/hospital-api/internal/repository"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
)

type fakeUserRepo struct {
	doctors    map[uuid.UUID]*model.Doctor
	nameHits   []*model.Doctor
	getCalls   int
	repository.UserRepository
}

func (r *fakeUserRepo) GetDoctor(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.getCalls++
	doc, ok := r.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

func (r *fakeUserRepo) FindDoctorsByName(_ context.Context, _, _ string, _ model.Department) ([]*model.Doctor, error) {
	return r.nameHits, nil
}

func (r *fakeUserRepo) ListDoctors(_ context.Context) ([]*model.Doctor, error) {
	out := make([]*model.Doctor, 0, len(r.doctors))
	for _, doc := range r.doctors {
		out = append(out, doc)
	}
	return out, nil
}

func TestGetDoctor(t *testing.T) {
	id := uuid.New()
	repo := &fakeUserRepo{doctors: map[uuid.UUID]*model.Doctor{
		id: {ID: id, FirstName: "Gregory", LastName: "House", Department: model.DepartmentCardiology},
	}}
	svc := NewService(repo)

	t.Run("found", func(t *testing.T) {
		doc, err := svc.GetDoctor(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Gregory", doc.FirstName)
	})

	t.Run("second lookup served from cache", func(t *testing.T) {
		before := repo.getCalls
		_, err := svc.GetDoctor(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, before, repo.getCalls)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.GetDoctor(context.Background(), uuid.New())
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	})
}

func TestResolveByName(t *testing.T) {
	t.Run("zero matches is not found", func(t *testing.T) {
		svc := NewService(&fakeUserRepo{})
		_, err := svc.ResolveByName(context.Background(), "Gregory", "House", model.DepartmentCardiology)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	})

	t.Run("single match resolves", func(t *testing.T) {
		id := uuid.New()
		svc := NewService(&fakeUserRepo{nameHits: []*model.Doctor{
			{ID: id, FirstName: "Gregory", LastName: "House", Department: model.DepartmentCardiology},
		}})
		doc, err := svc.ResolveByName(context.Background(), "Gregory", "House", model.DepartmentCardiology)
		require.NoError(t, err)
		assert.Equal(t, id, doc.ID)
	})

	t.Run("multiple matches is a conflict", func(t *testing.T) {
		svc := NewService(&fakeUserRepo{nameHits: []*model.Doctor{
			{ID: uuid.New(), FirstName: "Gregory", LastName: "House"},
			{ID: uuid.New(), FirstName: "Gregory", LastName: "House"},
		}})
		_, err := svc.ResolveByName(context.Background(), "Gregory", "House", model.DepartmentCardiology)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})
}

func TestListDoctors(t *testing.T) {
	id := uuid.New()
	svc := NewService(&fakeUserRepo{doctors: map[uuid.UUID]*model.Doctor{
		id: {ID: id, FirstName: "James", LastName: "Wilson", Department: model.DepartmentOncology},
	}})
	doctors, err := svc.ListDoctors(context.Background())
	require.NoError(t, err)
	assert.Len(t, doctors, 1)
}
