package store_test

import (
	"fmt"

	"github.com/MiladArbabi/aurora-baby-mvp/shared"
	"github.com/MiladArbabi/aurora-baby-mvp/shared/mocks"
	. "github.com/MiladArbabi/aurora-baby-mvp/store"

	"github.com/jinzhu/gorm"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {

	var (
		dbCount             int
		concreteDb          *gorm.DB
		concreteStore       *Store
		mockStringGenerator *mocks.MockStringGenerator
	)

	var (
		strPtr = func(s string) *string { return &s }
	)

	BeforeEach(func() {
		dbCount++
		concreteDb = shared.NewTestDbInstance(fmt.Sprintf("store_%d", dbCount))

		mockStringGenerator = &mocks.MockStringGenerator{}
		mockStringGenerator.On("GenerateUuid").Return("aaa").Once()
		mockStringGenerator.On("GenerateUuid").Return("bbb").Once()
		mockStringGenerator.On("GenerateUuid").Return("ccc").Once()

		concreteStore = &Store{
			Db:              concreteDb,
			StringGenerator: mockStringGenerator,
		}
		Expect(concreteStore.Bootstrap()).To(Succeed())
	})

	AfterEach(func() {
		concreteDb.Close()
	})

	Context("users", func() {

		It("should report a missing user", func() {
			_, err := concreteStore.GetUser(nil, "nope")
			Expect(err).To(Equal(ErrUserNotFound))
		})

		It("should update only the valid fields", func() {
			user, err := concreteStore.AddUser(nil, User{
				Name:  DbNullString(strPtr("Jane")),
				Email: DbNullString(strPtr("jane@x.com")),
			})
			Expect(err).To(BeNil())

			updated, err := concreteStore.UpdateUser(nil, User{
				UserId:       user.UserId,
				Relationship: DbNullString(strPtr("mother")),
			})
			Expect(err).To(BeNil())
			Expect(updated.Relationship.String).To(Equal("mother"))
			Expect(updated.Name.String).To(Equal("Jane"))
			Expect(updated.Email.String).To(Equal("jane@x.com"))
		})

		It("should report a missing user on update", func() {
			_, err := concreteStore.UpdateUser(nil, User{
				UserId:       DbNullString(strPtr("nope")),
				Relationship: DbNullString(strPtr("mother")),
			})
			Expect(err).To(Equal(ErrUserNotFound))
		})

		It("should refuse a duplicate email", func() {
			_, err := concreteStore.AddUser(nil, User{Email: DbNullString(strPtr("jane@x.com"))})
			Expect(err).To(BeNil())

			_, err = concreteStore.AddUser(nil, User{Email: DbNullString(strPtr("jane@x.com"))})
			Expect(err).NotTo(BeNil())
		})
	})

	Context("transactions", func() {

		It("should discard rolled back writes", func() {
			tx := concreteStore.Tx()
			_, err := concreteStore.AddUser(tx, User{
				Name:  DbNullString(strPtr("Jane")),
				Email: DbNullString(strPtr("jane@x.com")),
			})
			Expect(err).To(BeNil())
			tx.Rollback()

			count, err := concreteStore.CountUsers(nil)
			Expect(err).To(BeNil())
			Expect(count).To(Equal(0))
		})
	})

	Context("journey data", func() {

		It("should report a missing progress row", func() {
			_, err := concreteStore.GetJourneyData(nil, "aaa")
			Expect(err).To(Equal(ErrJourneyDataNotFound))
		})

		It("should create the row on first write and update it afterwards", func() {
			_, err := concreteStore.UpsertJourneyData(nil, JourneyData{
				OwnerId:       DbNullString(strPtr("aaa")),
				StarFragments: 1,
				Activities:    `["feeding"]`,
			})
			Expect(err).To(BeNil())

			_, err = concreteStore.UpsertJourneyData(nil, JourneyData{
				OwnerId:       DbNullString(strPtr("aaa")),
				StarFragments: 2,
				Activities:    `["feeding","tummy-time"]`,
			})
			Expect(err).To(BeNil())

			data, err := concreteStore.GetJourneyData(nil, "aaa")
			Expect(err).To(BeNil())
			Expect(data.StarFragments).To(Equal(int64(2)))
			Expect(data.Activities).To(Equal(`["feeding","tummy-time"]`))
		})
	})

	Context("children", func() {

		It("should return an empty slice for an empty id list", func() {
			children, err := concreteStore.ListChildrenByIds(nil, nil)
			Expect(err).To(BeNil())
			Expect(children).To(BeEmpty())
		})
	})
})
