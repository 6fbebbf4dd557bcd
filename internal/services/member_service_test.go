package services

import (
	"testing"

	"github.com/ksc-migration/collections-api/internal/models"
	"github.com/ksc-migration/collections-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMemberTestService(t *testing.T) (*gorm.DB, repository.MemberRepository, *MemberService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Organization{}, &models.Member{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	memberRepo := repository.NewMemberRepository(db)
	return db, memberRepo, NewMemberService(memberRepo)
}

func strptr(s string) *string { return &s }
func i64ptr(n int64) *int64   { return &n }

func TestMemberService_SnoAllocation(t *testing.T) {
	_, _, svc := setupMemberTestService(t)

	for _, sno := range []int64{1, 2, 3} {
		_, err := svc.CreateMember(MemberInput{Sno: i64ptr(sno), Name: strptr("seed")})
		require.NoError(t, err)
	}

	// A colliding request is silently renumbered to max+1
	member, err := svc.CreateMember(MemberInput{Sno: i64ptr(2), Name: strptr("collision")})
	require.NoError(t, err)
	require.Equal(t, int64(4), member.Sno)

	// No request at all also takes the next number
	member, err = svc.CreateMember(MemberInput{Name: strptr("auto")})
	require.NoError(t, err)
	require.Equal(t, int64(5), member.Sno)

	// A free requested number is honored
	member, err = svc.CreateMember(MemberInput{Sno: i64ptr(100), Name: strptr("explicit")})
	require.NoError(t, err)
	require.Equal(t, int64(100), member.Sno)
}

func TestMemberService_UpdateMember(t *testing.T) {
	_, _, svc := setupMemberTestService(t)

	member, err := svc.CreateMember(MemberInput{Sno: i64ptr(7), Name: strptr("before")})
	require.NoError(t, err)

	updated, err := svc.UpdateMember(member.ID, MemberInput{Name: strptr("after"), Phone: strptr("0712")})
	require.NoError(t, err)
	require.Equal(t, "after", *updated.Name)
	require.Equal(t, "0712", *updated.Phone)

	// Sno untouched when the input omits it
	require.Equal(t, int64(7), updated.Sno)

	updated, err = svc.UpdateMember(member.ID, MemberInput{Sno: i64ptr(9), Name: strptr("after")})
	require.NoError(t, err)
	require.Equal(t, int64(9), updated.Sno)

	_, err = svc.UpdateMember(9999, MemberInput{})
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestMemberService_ListMembers(t *testing.T) {
	_, _, svc := setupMemberTestService(t)

	_, err := svc.CreateMember(MemberInput{Sno: i64ptr(1), Name: strptr("John Mwita"), MemberCode: i64ptr(42)})
	require.NoError(t, err)
	_, err = svc.CreateMember(MemberInput{Sno: i64ptr(2), Name: strptr("Jane Kheri")})
	require.NoError(t, err)

	members, total, err := svc.ListMembers(repository.MemberFilter{Query: "Mwita"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "John Mwita", *members[0].Name)

	// A numeric query also matches the member code exactly
	members, total, err = svc.ListMembers(repository.MemberFilter{Query: "42"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "John Mwita", *members[0].Name)

	_, total, err = svc.ListMembers(repository.MemberFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

func TestMemberRepository_DeduplicateBySno(t *testing.T) {
	db, memberRepo, _ := setupMemberTestService(t)

	// Duplicates created directly: the sweep exists to repair dirty data
	// that predates allocation-time uniqueness.
	for _, m := range []models.Member{
		{Sno: 5, Name: strptr("keep")},
		{Sno: 5, Name: strptr("drop one")},
		{Sno: 5, Name: strptr("drop two")},
		{Sno: 6, Name: strptr("untouched")},
	} {
		member := m
		require.NoError(t, db.Create(&member).Error)
	}

	removed, err := memberRepo.DeduplicateBySno()
	require.NoError(t, err)
	require.Equal(t, int64(2), removed)

	var survivors []models.Member
	require.NoError(t, db.Where("sno = ?", 5).Find(&survivors).Error)
	require.Len(t, survivors, 1)
	require.Equal(t, "keep", *survivors[0].Name)

	// Idempotent
	removed, err = memberRepo.DeduplicateBySno()
	require.NoError(t, err)
	require.Zero(t, removed)
}
