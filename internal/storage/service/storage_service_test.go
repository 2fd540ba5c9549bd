package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/apperr"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/policy/engine"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/storage/domain"
)

type memRepo struct {
	mu        sync.Mutex
	materials map[int64]*domain.Material
	nextID    int64
	getErr    error
}

func newMemRepo() *memRepo {
	return &memRepo{materials: map[int64]*domain.Material{}}
}

func (m *memRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Material, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Material{}
	for id := int64(1); id <= m.nextID; id++ {
		if mat, ok := m.materials[id]; ok && mat.UserID == userID {
			out = append(out, *mat)
		}
	}
	return out, nil
}

func (m *memRepo) GetByID(ctx context.Context, id int64) (*domain.Material, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	mat, ok := m.materials[id]
	if !ok {
		return nil, nil
	}
	cp := *mat
	return &cp, nil
}

func (m *memRepo) Create(ctx context.Context, mat *domain.Material) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.materials {
		if existing.UserID == mat.UserID && existing.Name == mat.Name {
			return domain.ErrDuplicate
		}
	}
	m.nextID++
	mat.ID = m.nextID
	mat.Amount = domain.InitialAmount
	cp := *mat
	m.materials[mat.ID] = &cp
	return nil
}

func (m *memRepo) Increment(ctx context.Context, id int64) (*domain.Material, error) {
	return m.update(id, func(a int) int { return a + domain.AmountStep })
}

func (m *memRepo) Decrement(ctx context.Context, id int64) (*domain.Material, error) {
	return m.update(id, domain.Decremented)
}

func (m *memRepo) update(id int64, f func(int) int) (*domain.Material, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mat, ok := m.materials[id]
	if !ok {
		return nil, nil
	}
	mat.Amount = f(mat.Amount)
	cp := *mat
	return &cp, nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.materials[id]; !ok {
		return false, nil
	}
	delete(m.materials, id)
	return true, nil
}

type brokenPolicy struct{}

func (brokenPolicy) AllowStorage(context.Context, engine.OwnershipInput) (bool, error) {
	return false, errors.New("rego: compile error")
}

func (brokenPolicy) HealthCheck(context.Context) error { return errors.New("rego: compile error") }

func newService() (*StorageService, *memRepo) {
	repo := newMemRepo()
	return NewStorageService(repo, engine.NewOPAEvaluator()), repo
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	m, err := svc.Add(ctx, 1, " rice ", "grain")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if m.Name != "rice" || m.Amount != domain.InitialAmount {
		t.Errorf("Add = %+v", m)
	}

	_, err = svc.Add(ctx, 1, "rice", "grain")
	if !errors.Is(err, apperr.ErrAlreadyExists) || err.Error() != MsgMaterialExists {
		t.Fatalf("duplicate err = %v", err)
	}

	if _, err := svc.Add(ctx, 2, "rice", "grain"); err != nil {
		t.Fatalf("same name for another user should be allowed: %v", err)
	}

	if _, err := svc.Add(ctx, 1, "", "grain"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("empty name err = %v, want ErrInvalidInput", err)
	}
}

func TestList_EmptyIsOK(t *testing.T) {
	svc, _ := newService()
	list, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("List = %v, want empty slice", list)
	}
}

func TestIncrementDecrement(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	m, err := svc.Add(ctx, 1, "milk", "dairy")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	steps := []struct {
		op   func(context.Context, int64, int64) (*domain.Material, error)
		want int
	}{
		{svc.Increment, 200},
		{svc.Increment, 300},
		{svc.Decrement, 200},
		{svc.Decrement, 100},
		{svc.Decrement, 100},
	}
	for i, st := range steps {
		got, err := st.op(ctx, 1, m.ID)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got.Amount != st.want {
			t.Errorf("step %d amount = %d, want %d", i, got.Amount, st.want)
		}
	}
}

func TestOtherUsersItemsAreNotFound(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()
	m, err := svc.Add(ctx, 1, "milk", "dairy")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := svc.Increment(ctx, 2, m.ID); !errors.Is(err, apperr.ErrNotFound) || err.Error() != MsgMaterialNotFound {
		t.Errorf("Increment by stranger err = %v", err)
	}
	if _, err := svc.Decrement(ctx, 2, m.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Decrement by stranger err = %v", err)
	}
	if err := svc.Delete(ctx, 2, m.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Delete by stranger err = %v", err)
	}
	if repo.materials[m.ID].Amount != domain.InitialAmount {
		t.Error("stranger changed the amount")
	}

	if err := svc.Delete(ctx, 1, m.ID); err != nil {
		t.Fatalf("Delete by owner: %v", err)
	}
	if err := svc.Delete(ctx, 1, m.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
}

func TestPolicyAndLookupFailuresAreInternal(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewStorageService(repo, brokenPolicy{})
	m, err := svc.Add(ctx, 1, "milk", "dairy")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Increment(ctx, 1, m.ID); apperr.Kind(err) != apperr.ErrInternal {
		t.Errorf("policy failure kind = %v, want internal", apperr.Kind(err))
	}

	repo.getErr = errors.New("connection reset")
	if err := svc.Delete(ctx, 1, m.ID); apperr.Kind(err) != apperr.ErrInternal {
		t.Errorf("lookup failure kind = %v, want internal", apperr.Kind(err))
	}
}
