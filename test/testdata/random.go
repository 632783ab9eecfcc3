package testdata

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

func RandomName() string {
	return gofakeit.Name()
}

func RandomDescription() string {
	words := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		words = append(words, gofakeit.Word())
	}
	return strings.Join(words, " ")
}

// RandomQuestionID returns an identifier accepted by the question_id rule
func RandomQuestionID() string {
	return fmt.Sprintf("q-%s", gofakeit.UUID())
}

func RandomPrompt() string {
	return RandomDescription() + "?"
}

func RandomEmail() string {
	return gofakeit.Email()
}
