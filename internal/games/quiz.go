package games

// QuizOption pairs a callback key with the label shown on the button.
type QuizOption struct {
	Key   string
	Label string
}

// Quiz is a single-question quiz answered via inline keyboard.
type Quiz struct {
	ID      string
	Prompt  string
	Options []QuizOption
	Answer  string // key of the right option
}

// DailyQuiz returns the active quiz.
// TODO: rotate questions from storage once there is more than one.
func DailyQuiz() Quiz {
	return Quiz{
		ID:     "1",
		Prompt: "What is 2 + 2?",
		Options: []QuizOption{
			{Key: "a", Label: "3"},
			{Key: "b", Label: "4"},
			{Key: "c", Label: "5"},
		},
		Answer: "b",
	}
}

// Check reports whether the option key is the right answer.
func (q Quiz) Check(key string) bool {
	return key == q.Answer
}
