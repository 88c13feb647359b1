package service

import (
	"context"

	"quiz_engine/internal/model"
	"quiz_engine/internal/repository"
	"quiz_engine/pkg/logger"

	"go.uber.org/zap"
)

type SeedService struct {
	Bank    *QuestionBankService
	Quizzes *QuizService
}

func NewSeedService(bank *QuestionBankService, quizzes *QuizService) *SeedService {
	return &SeedService{Bank: bank, Quizzes: quizzes}
}

type SeedResult struct {
	QuestionsAdded int `json:"questionsAdded"`
	QuizzesDefined int `json:"quizzesDefined"`
}

type sampleQuestion struct {
	text       string
	difficulty model.Difficulty
	category   string
	correct    string
	wrong      []string
}

func (q sampleQuestion) input() QuestionInput {
	options := []OptionInput{{Text: q.correct, IsCorrect: true}}
	for _, w := range q.wrong {
		options = append(options, OptionInput{Text: w})
	}
	return QuestionInput{
		Text:       q.text,
		Difficulty: q.difficulty,
		Category:   q.category,
		Options:    options,
	}
}

var sampleQuestions = []sampleQuestion{
	{"What kind of programming language is Python?", model.DifficultyEasy, "Python Basics",
		"High-level language", []string{"Low-level language", "Machine code", "Assembly"}},
	{"Which statement prints to the screen in Python?", model.DifficultyEasy, "Python Basics",
		"print()", []string{"echo()", "printf()", "cout"}},
	{"What is the file extension of a Python source file?", model.DifficultyEasy, "Python Basics",
		".py", []string{".python", ".pt", ".pyt"}},
	{"Which function reads input from the user?", model.DifficultyEasy, "Python Basics",
		"input()", []string{"get()", "scanf()", "read()"}},
	{"Which character starts a single-line comment in Python?", model.DifficultyEasy, "Python Basics",
		"#", []string{"//", "/*", "--"}},
	{"Which function returns the type of a value?", model.DifficultyEasy, "Python Basics",
		"type()", []string{"typeof()", "check()", "datatype()"}},

	{"Which type stores real numbers in Python?", model.DifficultyMedium, "Data Types",
		"float", []string{"int", "string", "boolean"}},
	{"Can a Python list be modified after creation?", model.DifficultyMedium, "Data Types",
		"Yes", []string{"No", "Only when empty", "Only with copy()"}},
	{"Which brackets declare a tuple?", model.DifficultyMedium, "Data Types",
		"()", []string{"[]", "{}", "<>"}},
	{"How does a dictionary store data?", model.DifficultyMedium, "Data Types",
		"As key-value pairs", []string{"As an array", "As a list", "As a queue"}},
	{"Which method appends an element to the end of a list?", model.DifficultyMedium, "Lists & Tuples",
		"append()", []string{"add()", "insert()", "push()"}},
	{"Which function returns the length of a list?", model.DifficultyMedium, "Lists & Tuples",
		"len()", []string{"length()", "size()", "count()"}},
	{"Does a set allow duplicate elements?", model.DifficultyMedium, "Data Types",
		"No", []string{"Yes", "Only for strings", "Only for numbers"}},
	{"How do you write a multi-line string?", model.DifficultyMedium, "Strings",
		`"""text"""`, []string{"'text'", `"text"`, "(text)"}},

	{"Which symbol marks a decorator?", model.DifficultyHard, "Advanced",
		"@", []string{"#", "&", "$"}},
	{"What is a lambda function?", model.DifficultyHard, "Functions",
		"An anonymous function", []string{"A regular function", "A static function", "A recursive function"}},
	{"Which keyword does a generator use?", model.DifficultyHard, "Advanced",
		"yield", []string{"return", "generate", "next"}},
	{"What is *args used for?", model.DifficultyHard, "Functions",
		"Accepting any number of positional arguments", []string{"Accepting an array", "Accepting a dictionary", "Accepting a tuple only"}},
	{"What is __init__ in a Python class?", model.DifficultyHard, "OOP",
		"The constructor", []string{"The destructor", "A regular method", "A static method"}},
	{"Which list comprehension is valid?", model.DifficultyHard, "Advanced",
		"[x*2 for x in range(5)]", []string{"{x*2 in range(5)}", "(x*2 in range(5))", "[x*2 in range(5)]"}},
	{"Which keywords handle exceptions in Python?", model.DifficultyHard, "Exceptions",
		"try-except", []string{"try-catch", "catch-throw", "handle-error"}},
	{"Which standard module works with JSON?", model.DifficultyHard, "Modules",
		"json", []string{"jsonlib", "jsonparser", "simplejson"}},

	{"Which order does a stack follow?", model.DifficultyMedium, "Data Structures",
		"LIFO", []string{"FIFO", "LILO", "Random"}},
	{"Which order does a queue follow?", model.DifficultyMedium, "Data Structures",
		"FIFO", []string{"LIFO", "LILO", "Random"}},

	{"Which OOP concept lets a class reuse another class's behavior?", model.DifficultyMedium, "OOP",
		"Inheritance", []string{"Polymorphism", "Encapsulation", "Abstraction"}},
	{"How does a class inherit from another in Python?", model.DifficultyMedium, "OOP",
		"class Child(Parent):", []string{"class Child extends Parent:", "class Child inherits Parent:", "class Child <- Parent:"}},

	{"Which mode opens a file for reading?", model.DifficultyMedium, "File Handling",
		"'r'", []string{"'w'", "'a'", "'x'"}},
	{"Which mode opens a file for writing and truncates it?", model.DifficultyMedium, "File Handling",
		"'w'", []string{"'r'", "'a'", "'r+'"}},
}

var sampleQuizzes = []QuizDefinition{
	{
		Title:          "Python Basics Exam",
		Description:    "Covers the Python fundamentals",
		TotalQuestions: 10,
		TimeLimit:      600,
		Matrix:         &model.DifficultyMatrix{Easy: 6, Medium: 3, Hard: 1},
	},
	{
		Title:          "Advanced Python Exam",
		Description:    "Covers advanced Python topics",
		TotalQuestions: 15,
		TimeLimit:      900,
		Matrix:         &model.DifficultyMatrix{Easy: 3, Medium: 7, Hard: 5},
	},
	{
		Title:          "Comprehensive Python Exam",
		Description:    "Covers the whole Python syllabus",
		TotalQuestions: 20,
		TimeLimit:      1200,
		Matrix:         &model.DifficultyMatrix{Easy: 6, Medium: 8, Hard: 6},
	},
	{
		Title:          "Quick Quiz (5 minutes)",
		Description:    "A short five-question quiz",
		TotalQuestions: 5,
		TimeLimit:      300,
		Matrix:         &model.DifficultyMatrix{Easy: 2, Medium: 2, Hard: 1},
	},
}

// Seed loads the sample bank and quizzes. Questions whose text is already
// in the bank are skipped and quizzes are matched by title, so running it
// twice adds nothing.
func (s *SeedService) Seed(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}

	existing := map[string]bool{}
	for q, err := range s.Bank.Search(ctx, repository.QuestionFilter{}) {
		if err != nil {
			return nil, err
		}
		existing[q.Text] = true
	}

	for _, sq := range sampleQuestions {
		if existing[sq.text] {
			continue
		}
		if _, err := s.Bank.AddQuestion(ctx, sq.input()); err != nil {
			logger.Log.Warn("skipping sample question", zap.String("text", sq.text), zap.Error(err))
			continue
		}
		existing[sq.text] = true
		result.QuestionsAdded++
	}

	for _, def := range sampleQuizzes {
		if _, err := s.Quizzes.DefineQuiz(ctx, def); err != nil {
			logger.Log.Warn("skipping sample quiz", zap.String("title", def.Title), zap.Error(err))
			continue
		}
		result.QuizzesDefined++
	}

	logger.Log.Info("sample data loaded",
		zap.Int("questions_added", result.QuestionsAdded),
		zap.Int("quizzes_defined", result.QuizzesDefined))
	return result, nil
}
