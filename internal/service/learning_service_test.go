package service

import (
	"context"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestPlantLifecycle(t *testing.T) {
	svc := NewPlantService(repository.NewPlantRepository(newTestDB(t)))

	st, err := svc.Stage("bob")
	require.NoError(t, err)
	assert.Equal(t, model.PlantMinStage, st.Stage)
	all, err := svc.All()
	require.NoError(t, err)
	assert.Empty(t, all, "Stage must not create a plant")

	p, err := svc.Add("bob")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stage)

	_, err = svc.Add("bob")
	assert.ErrorIs(t, err, util.ErrAlreadyExists)

	for i := 0; i < 8; i++ {
		p, err = svc.NextStage("bob")
		require.NoError(t, err)
	}
	assert.Equal(t, model.PlantMaxStage, p.Stage)
	assert.Equal(t, 8, p.TotalLessonsCompleted)
	assert.True(t, p.FullyGrown())

	p, err = svc.Reset("bob")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stage)
	assert.Equal(t, 0, p.TotalLessonsCompleted)

	got, err := svc.Get("bob")
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalLessonsCompleted)

	ok, err := svc.Delete("bob")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Get("bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPlantNextStageCreatesMissing(t *testing.T) {
	svc := NewPlantService(repository.NewPlantRepository(newTestDB(t)))

	p, err := svc.NextStage("carol")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stage)
	assert.Equal(t, 1, p.TotalLessonsCompleted)
}

func TestProgressBar(t *testing.T) {
	svc := NewProgressBarService(repository.NewProgressBarRepository(newTestDB(t)))

	pb, err := svc.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 0, pb.CompletedLessons)

	_, err = svc.Update("u1", 7)
	assert.ErrorIs(t, err, util.ErrOutOfRange)
	_, err = svc.Update("u1", -1)
	assert.ErrorIs(t, err, util.ErrOutOfRange)

	pb, err = svc.Update("u1", 3)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, pb.Percentage(), 0.001)

	for i := 0; i < 5; i++ {
		pb, err = svc.Increment("u1")
		require.NoError(t, err)
	}
	assert.Equal(t, model.MaxCompletedLessons, pb.CompletedLessons)
	assert.True(t, pb.Complete())
}

func TestQuestValidation(t *testing.T) {
	svc := NewQuestService(repository.NewQuestRepository(newTestDB(t)))

	err := svc.Create(&model.Quest{Name: "", Difficulty: "easy", Permalink: "/a"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	err = svc.Create(&model.Quest{Name: "A", Difficulty: "extreme", Permalink: "/a"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	err = svc.Create(&model.Quest{Name: "A", Difficulty: "easy", Permalink: "a"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	q := &model.Quest{Name: "A", Difficulty: "easy", Permalink: "/a", TotalSubmodules: 3}
	require.NoError(t, svc.Create(q))
	assert.Equal(t, model.QuestEasy, q.Difficulty)

	err = svc.Create(&model.Quest{Name: "B", Difficulty: "HARD", Permalink: "/a"})
	assert.ErrorIs(t, err, util.ErrAlreadyExists)

	other := &model.Quest{Name: "B", Difficulty: "HARD", Permalink: "/b"}
	require.NoError(t, svc.Create(other))

	dup := "/a"
	_, err = svc.Update(other.ID, QuestPatch{Permalink: &dup})
	assert.ErrorIs(t, err, util.ErrAlreadyExists)

	name, points := "Renamed", 50
	updated, err := svc.Update(q.ID, QuestPatch{Name: &name, RewardPoints: &points})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 50, updated.RewardPoints)
	assert.Equal(t, 3, updated.TotalSubmodules)

	list, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	ok, err := svc.Delete(q.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = svc.Get(q.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestQuizLeaderboardWithoutRedis(t *testing.T) {
	svc := NewQuizScoreService(repository.NewQuizScoreRepository(newTestDB(t)), nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Submit(ctx, &model.QuizScore{Username: "  ", Score: 3}), util.ErrInvalidInput)
	assert.ErrorIs(t, svc.Submit(ctx, &model.QuizScore{Username: "x", Score: -1}), util.ErrInvalidInput)

	for _, s := range []model.QuizScore{
		{Username: "toby", Score: 8},
		{Username: "hop", Score: 6},
		{Username: "Toby", Score: 9},
		{Username: "ann", Score: 8},
	} {
		s := s
		require.NoError(t, svc.Submit(ctx, &s))
	}

	top, err := svc.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, 9, top[0].Score)
	// 同分按先提交者优先
	assert.Equal(t, "toby", top[1].Username)
	assert.Equal(t, "ann", top[2].Username)

	byUser, err := svc.ByUser("TOBY")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)
}

func TestLessonProgress(t *testing.T) {
	svc := NewLessonProgressService(repository.NewLessonProgressRepository(newTestDB(t)))

	assert.ErrorIs(t, svc.Create(&model.LessonProgress{UserID: "u1"}), util.ErrInvalidInput)
	assert.ErrorIs(t, svc.Create(&model.LessonProgress{
		UserID: "u1", LessonKey: "l1",
		Flashcards: []model.FlashcardMark{{CardIndex: 0, Status: "MAYBE"}},
	}), util.ErrInvalidInput)

	lp := &model.LessonProgress{
		UserID: "u1", LessonKey: "l1",
		Flashcards: []model.FlashcardMark{{CardIndex: 0}, {CardIndex: 1, Status: model.FlashcardKnown}},
	}
	require.NoError(t, svc.Create(lp))
	assert.Equal(t, model.FlashcardUnseen, lp.Flashcards[0].Status)
	assert.JSONEq(t, "[]", string(lp.Badges))

	assert.ErrorIs(t, svc.Create(&model.LessonProgress{UserID: "u1", LessonKey: "l1"}), util.ErrAlreadyExists)

	got, err := svc.GetOrCreate("u1", "l1")
	require.NoError(t, err)
	assert.Equal(t, lp.ID, got.ID)
	assert.Len(t, got.Flashcards, 2)

	fresh, err := svc.GetOrCreate("u1", "l2")
	require.NoError(t, err)
	assert.NotZero(t, fresh.ID)
	assert.NotNil(t, fresh.LastVisited)

	updated, err := svc.Update(lp.ID, &model.LessonProgress{
		TotalTimeMs: 1200,
		Completed:   true,
		Badges:      datatypes.JSON(`["first"]`),
		Flashcards:  []model.FlashcardMark{{CardIndex: 2, Status: model.FlashcardReview}},
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.NotNil(t, updated.LastVisited)

	reloaded, err := svc.GetOrCreate("u1", "l1")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), reloaded.TotalTimeMs)
	require.Len(t, reloaded.Flashcards, 1)
	assert.Equal(t, 2, reloaded.Flashcards[0].CardIndex)
	assert.JSONEq(t, `["first"]`, string(reloaded.Badges))

	list, err := svc.List("u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	ok, err := svc.Delete(lp.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	list, _ = svc.List("")
	assert.Len(t, list, 1)
}

func TestResumeUpsert(t *testing.T) {
	svc := NewResumeService(repository.NewResumeRepository(newTestDB(t)))

	_, err := svc.Save(&model.Resume{Username: " "})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	r, err := svc.Save(&model.Resume{
		Username:            "toby",
		ProfessionalSummary: "v1",
		Experiences:         []model.Experience{{JobTitle: "Dev", Company: "A"}, {JobTitle: "Lead", Company: "B"}},
	})
	require.NoError(t, err)
	firstID := r.ID
	assert.Len(t, r.Experiences, 2)

	r, err = svc.Save(&model.Resume{
		Username:            "toby",
		ProfessionalSummary: "v2",
		Experiences:         []model.Experience{{JobTitle: "CTO", Company: "C"}},
	})
	require.NoError(t, err)
	assert.Equal(t, firstID, r.ID)
	assert.Equal(t, "v2", r.ProfessionalSummary)
	require.Len(t, r.Experiences, 1)
	assert.Equal(t, "CTO", r.Experiences[0].JobTitle)

	_, err = svc.Get("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
