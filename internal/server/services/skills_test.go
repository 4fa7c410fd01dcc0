package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learninfinity/learninfinity/internal/common"
	"github.com/learninfinity/learninfinity/internal/server/models"
)

func newSkillService(t *testing.T, rm *fakeRepoManager) *SkillService {
	t.Helper()
	return NewSkillService(testDB(t), rm, testConfig())
}

func TestAddSkill_AppendsAtTail(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo(), s: newFakeSkillsRepo()}
	seedUser(t, rm.u, "u-1", 24)
	svc := newSkillService(t, rm)

	user, err := svc.Add(context.Background(), "u-1", common.SkillSideOffered,
		models.Skill{Name: "Piano", Category: "Music", Level: "Advanced"})
	require.NoError(t, err)
	require.Len(t, user.SkillsOffered, 1)

	user, err = svc.Add(context.Background(), "u-1", common.SkillSideOffered,
		models.Skill{Name: "Go", Category: "Programming", Level: "Beginner"})
	require.NoError(t, err)

	require.Len(t, user.SkillsOffered, 2)
	assert.Equal(t, "Go", user.SkillsOffered[1].Name, "new skill lands at the tail")
	assert.NotEmpty(t, user.SkillsOffered[1].ID, "skills get stable IDs at creation")
	assert.Empty(t, user.SkillsLearning)
}

func TestRemoveSkillByIndex_RemovesExactElement(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo(), s: newFakeSkillsRepo()}
	seedUser(t, rm.u, "u-1", 24)
	svc := newSkillService(t, rm)

	for _, name := range []string{"Go", "Piano", "Chess"} {
		_, err := svc.Add(context.Background(), "u-1", common.SkillSideOffered,
			models.Skill{Name: name, Category: "c", Level: "l"})
		require.NoError(t, err)
	}

	user, err := svc.RemoveByIndex(context.Background(), "u-1", common.SkillSideOffered, 0)
	require.NoError(t, err)

	require.Len(t, user.SkillsOffered, 2)
	assert.Equal(t, "Piano", user.SkillsOffered[0].Name, "subsequent entries shift down")
	assert.Equal(t, "Chess", user.SkillsOffered[1].Name)
}

func TestRemoveSkillByIndex_OutOfRange(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo(), s: newFakeSkillsRepo()}
	seedUser(t, rm.u, "u-1", 24)
	svc := newSkillService(t, rm)

	_, err := svc.RemoveByIndex(context.Background(), "u-1", common.SkillSideOffered, 0)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = svc.RemoveByIndex(context.Background(), "u-1", common.SkillSideOffered, -1)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRemoveSkillByID(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo(), s: newFakeSkillsRepo()}
	seedUser(t, rm.u, "u-1", 24)
	svc := newSkillService(t, rm)

	user, err := svc.Add(context.Background(), "u-1", common.SkillSideLearning,
		models.Skill{Name: "Spanish", Category: "Language", Level: "Beginner"})
	require.NoError(t, err)
	id := user.SkillsLearning[0].ID

	user, err = svc.RemoveByID(context.Background(), "u-1", common.SkillSideLearning, id)
	require.NoError(t, err)
	assert.Empty(t, user.SkillsLearning)

	_, err = svc.RemoveByID(context.Background(), "u-1", common.SkillSideLearning, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSkillSides_AreIndependent(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo(), s: newFakeSkillsRepo()}
	seedUser(t, rm.u, "u-1", 24)
	svc := newSkillService(t, rm)

	_, err := svc.Add(context.Background(), "u-1", common.SkillSideOffered,
		models.Skill{Name: "Go", Category: "Programming", Level: "Expert"})
	require.NoError(t, err)

	user, err := svc.Add(context.Background(), "u-1", common.SkillSideLearning,
		models.Skill{Name: "Guitar", Category: "Music", Level: "Beginner"})
	require.NoError(t, err)

	assert.Len(t, user.SkillsOffered, 1)
	assert.Len(t, user.SkillsLearning, 1)
}
