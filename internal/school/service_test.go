package school_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-payments/internal"
	schoolmodel "github.com/frahmantamala/school-payments/internal/core/datamodel/school"
	"github.com/frahmantamala/school-payments/internal/school"
)

func TestSchool(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "School Suite")
}

type memSchoolRepo struct {
	schools map[int64]*schoolmodel.School
	nextID  int64
}

func newMemSchoolRepo() *memSchoolRepo {
	return &memSchoolRepo{schools: make(map[int64]*schoolmodel.School)}
}

func (m *memSchoolRepo) Create(s *schoolmodel.School) error {
	m.nextID++
	s.ID = m.nextID
	m.schools[s.ID] = s
	return nil
}

func (m *memSchoolRepo) GetByID(id int64) (*schoolmodel.School, error) {
	if s, ok := m.schools[id]; ok {
		return s, nil
	}
	return nil, internal.ErrSchoolNotFound
}

func (m *memSchoolRepo) GetByEmail(email string) (*schoolmodel.School, error) {
	for _, s := range m.schools {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memSchoolRepo) GetAll() ([]schoolmodel.School, error) {
	out := make([]schoolmodel.School, 0, len(m.schools))
	for _, s := range m.schools {
		out = append(out, *s)
	}
	return out, nil
}

var _ = Describe("School Service", func() {
	var (
		repo *memSchoolRepo
		svc  *school.Service
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMemSchoolRepo()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc = school.NewService(repo, logger)
	})

	It("creates a school", func() {
		sch, err := svc.CreateSchool(ctx, school.CreateSchoolDTO{
			Name:  "Greenfield Public School",
			Email: "accounts@greenfield.edu",
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(sch.ID).To(Equal(int64(1)))
	})

	It("rejects a duplicate email with a conflict", func() {
		_, err := svc.CreateSchool(ctx, school.CreateSchoolDTO{
			Name:  "Greenfield Public School",
			Email: "accounts@greenfield.edu",
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.CreateSchool(ctx, school.CreateSchoolDTO{
			Name:  "Greenfield Annex",
			Email: "accounts@greenfield.edu",
		})

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(409))
		Expect(appErr.Code).To(Equal(internal.ErrCodeSchoolExists))
	})

	It("rejects an invalid email", func() {
		_, err := svc.CreateSchool(ctx, school.CreateSchoolDTO{
			Name:  "Greenfield",
			Email: "not-an-email",
		})

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
	})

	It("propagates the not-found sentinel", func() {
		_, err := svc.GetSchool(ctx, 99)
		Expect(err).To(Equal(internal.ErrSchoolNotFound))
	})
})
