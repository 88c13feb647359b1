package service

import (
	"context"
	"testing"

	"quiz_engine/internal/model"
	"quiz_engine/internal/repository"
	"quiz_engine/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddQuestionRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	valid := func() QuestionInput {
		return QuestionInput{
			Text:       "What does len() return?",
			Difficulty: model.DifficultyEasy,
			Options: []OptionInput{
				{Text: "The length", IsCorrect: true},
				{Text: "The type"},
			},
		}
	}

	cases := map[string]func(*QuestionInput){
		"SingleOption":   func(in *QuestionInput) { in.Options = in.Options[:1] },
		"NoOptions":      func(in *QuestionInput) { in.Options = nil },
		"NoCorrect":      func(in *QuestionInput) { in.Options[0].IsCorrect = false },
		"TwoCorrect":     func(in *QuestionInput) { in.Options[1].IsCorrect = true },
		"BlankText":      func(in *QuestionInput) { in.Text = "   " },
		"BlankOption":    func(in *QuestionInput) { in.Options[1].Text = " " },
		"BadDifficulty":  func(in *QuestionInput) { in.Difficulty = 4 },
		"ZeroDifficulty": func(in *QuestionInput) { in.Difficulty = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid()
			mutate(&in)
			_, err := env.bank.AddQuestion(ctx, in)
			assert.ErrorIs(t, err, util.ErrValidation)
		})
	}

	assert.Zero(t, env.countRows(t, &model.Question{}))
	assert.Zero(t, env.countRows(t, &model.Option{}))
}

func TestAddQuestionStoresOptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.bank.AddQuestion(ctx, QuestionInput{
		Text:       "  Which keyword defines a function?  ",
		Difficulty: model.DifficultyMedium,
		Options: []OptionInput{
			{Text: "def", IsCorrect: true},
			{Text: "func"},
			{Text: "fn"},
		},
	})
	require.NoError(t, err)

	q, err := env.bank.GetQuestion(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Which keyword defines a function?", q.Text)
	assert.Equal(t, util.DefaultCategory, q.Category)
	assert.Len(t, q.Options, 3)
	assert.True(t, q.Options[0].IsCorrect)
}

func TestUpdateQuestion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id, correctID, _ := env.addQuestion(t, "Original text", model.DifficultyEasy)

	t.Run("FieldsOnly", func(t *testing.T) {
		err := env.bank.UpdateQuestion(ctx, id, QuestionPatch{
			Text:       ptr("Updated text"),
			Difficulty: ptr(model.DifficultyHard),
		})
		require.NoError(t, err)

		q, err := env.bank.GetQuestion(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Updated text", q.Text)
		assert.Equal(t, model.DifficultyHard, q.Difficulty)
		assert.Equal(t, "Test", q.Category)
		assert.Len(t, q.Options, 2)
	})

	t.Run("InvalidOptionsLeaveQuestionUntouched", func(t *testing.T) {
		err := env.bank.UpdateQuestion(ctx, id, QuestionPatch{
			Text: ptr("Should not be written"),
			Options: &[]OptionInput{
				{Text: "a", IsCorrect: true},
				{Text: "b", IsCorrect: true},
			},
		})
		assert.ErrorIs(t, err, util.ErrValidation)

		q, err := env.bank.GetQuestion(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Updated text", q.Text)
		require.Len(t, q.Options, 2)
		assert.Equal(t, correctID, q.Options[0].ID)
	})

	t.Run("ReplaceOptions", func(t *testing.T) {
		err := env.bank.UpdateQuestion(ctx, id, QuestionPatch{
			Options: &[]OptionInput{
				{Text: "x"},
				{Text: "y", IsCorrect: true},
				{Text: "z"},
			},
		})
		require.NoError(t, err)

		q, err := env.bank.GetQuestion(ctx, id)
		require.NoError(t, err)
		require.Len(t, q.Options, 3)
		for _, o := range q.Options {
			assert.NotEqual(t, correctID, o.ID)
		}
		assert.True(t, q.Options[1].IsCorrect)
	})

	t.Run("BlankTextRejected", func(t *testing.T) {
		err := env.bank.UpdateQuestion(ctx, id, QuestionPatch{Text: ptr("  ")})
		assert.ErrorIs(t, err, util.ErrValidation)
	})

	t.Run("UnknownQuestion", func(t *testing.T) {
		err := env.bank.UpdateQuestion(ctx, 9999, QuestionPatch{Text: ptr("x")})
		assert.ErrorIs(t, err, util.ErrQuestionNotFound)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}

func TestDeleteQuestionIsSoft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id, _, _ := env.addQuestion(t, "Temporary", model.DifficultyEasy)

	require.NoError(t, env.bank.DeleteQuestion(ctx, id))

	_, err := env.bank.GetQuestion(ctx, id)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	kept, err := env.bank.QuestionRepo.FindByIDsUnscoped([]uint{id})
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Len(t, kept[0].Options, 2)

	assert.ErrorIs(t, env.bank.DeleteQuestion(ctx, id), util.ErrQuestionNotFound)
}

func collect(t *testing.T, env *testEnv, f repository.QuestionFilter) []string {
	t.Helper()
	var texts []string
	for q, err := range env.bank.Search(context.Background(), f) {
		require.NoError(t, err)
		texts = append(texts, q.Text)
	}
	return texts
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	add := func(text string, d model.Difficulty, category string) {
		_, err := env.bank.AddQuestion(ctx, QuestionInput{
			Text: text, Difficulty: d, Category: category,
			Options: []OptionInput{{Text: "a", IsCorrect: true}, {Text: "b"}},
		})
		require.NoError(t, err)
	}
	add("What is a Python LIST?", model.DifficultyEasy, "Data Types")
	add("How do lists grow?", model.DifficultyMedium, "Data Types")
	add("What is a tuple?", model.DifficultyEasy, "Data Types")
	add("Is 100% coverage useful?", model.DifficultyHard, "Testing")
	add("What is 100 percent?", model.DifficultyHard, "Testing")

	assert.Equal(t, []string{"What is a Python LIST?", "How do lists grow?"},
		collect(t, env, repository.QuestionFilter{Keyword: "list"}))
	assert.Equal(t, []string{"What is a Python LIST?"},
		collect(t, env, repository.QuestionFilter{Keyword: "LIST", Difficulty: model.DifficultyEasy}))
	assert.Equal(t, []string{"Is 100% coverage useful?", "What is 100 percent?"},
		collect(t, env, repository.QuestionFilter{Category: "Testing"}))
	assert.Equal(t, []string{"Is 100% coverage useful?"},
		collect(t, env, repository.QuestionFilter{Keyword: "100%"}))
	assert.Empty(t, collect(t, env, repository.QuestionFilter{Keyword: "tuple", Category: "Testing"}))
	assert.Len(t, collect(t, env, repository.QuestionFilter{}), 5)

	t.Run("StopsEarly", func(t *testing.T) {
		n := 0
		for range env.bank.Search(ctx, repository.QuestionFilter{}) {
			n++
			if n == 2 {
				break
			}
		}
		assert.Equal(t, 2, n)
	})

	t.Run("InvalidDifficulty", func(t *testing.T) {
		for _, err := range env.bank.Search(ctx, repository.QuestionFilter{Difficulty: 7}) {
			assert.ErrorIs(t, err, util.ErrValidation)
		}
	})

	t.Run("AccentedText", func(t *testing.T) {
		add("ÉTAT Câu HỎI", model.DifficultyMedium, "Tiếng Việt")
		for _, kw := range []string{"câu hỏi", "état", "ÉTAT", "CÂU", "hỏi"} {
			assert.Equal(t, []string{"ÉTAT Câu HỎI"},
				collect(t, env, repository.QuestionFilter{Keyword: kw}), kw)
		}
		assert.Empty(t, collect(t, env, repository.QuestionFilter{Keyword: "câu trả lời"}))
	})
}

func TestListWithOptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addQuestion(t, "Ngôn ngữ LẬP TRÌNH nào?", model.DifficultyEasy)
	env.addQuestion(t, "Which keyword defines a function?", model.DifficultyHard)

	all, err := env.bank.ListWithOptions(ctx, repository.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, q := range all {
		assert.Len(t, q.Options, 2)
		// the list is fully read, so lookups inside the loop are fine
		got, err := env.bank.GetQuestion(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, q.Text, got.Text)
	}

	hits, err := env.bank.ListWithOptions(ctx, repository.QuestionFilter{Keyword: "lập trình"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Ngôn ngữ LẬP TRÌNH nào?", hits[0].Text)

	_, err = env.bank.ListWithOptions(ctx, repository.QuestionFilter{Difficulty: 9})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestValidateBank(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addQuestion(t, "Healthy", model.DifficultyEasy)

	report, err := env.bank.ValidateBank(ctx)
	require.NoError(t, err)
	assert.True(t, report.IsValid)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 1, report.TotalQuestions)

	// rows written around the bank service to simulate damaged data
	noOptions := model.Question{Text: "No options", Difficulty: model.DifficultyEasy}
	require.NoError(t, env.db.Create(&noOptions).Error)
	single := model.Question{Text: "Single", Difficulty: model.DifficultyEasy,
		Options: []model.Option{{Text: "only", IsCorrect: true}}}
	require.NoError(t, env.db.Create(&single).Error)
	twoCorrect := model.Question{Text: "Two correct", Difficulty: model.DifficultyEasy,
		Options: []model.Option{{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true}}}
	require.NoError(t, env.db.Create(&twoCorrect).Error)

	report, err = env.bank.ValidateBank(ctx)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.Equal(t, 4, report.TotalQuestions)
	assert.ElementsMatch(t, []string{
		"question 2 has no options",
		"question 3 has only 1 options (minimum 2 required)",
		"question 4 has 2 correct options (should be 1)",
	}, report.Issues)
}
