package deepseek

import (
	"fmt"
	"strings"
)

// buildSystemPrompt embeds the known category labels and the response format
// contract. The model is asked to reuse an existing label where one fits and
// to mint a new concise one otherwise.
func buildSystemPrompt(categories []string) string {
	categoryList := "none"
	if len(categories) > 0 {
		categoryList = strings.Join(categories, ", ")
	}
	return fmt.Sprintf(
		"You are a document classification system. "+
			"Existing categories: [%s]. "+
			"For each filename in the list, choose the most fitting existing category. "+
			"If none fits, create a new, concise category label based on the filename. "+
			"Respond with a JSON object whose keys are the filenames and whose values are the category labels. "+
			`For example: {"book1.pdf": "Fiction", "book2.epub": "Science"}`,
		categoryList,
	)
}

func buildUserPrompt(names []string) string {
	var sb strings.Builder
	sb.WriteString("Classify the following files:\n")
	for _, name := range names {
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return sb.String()
}
