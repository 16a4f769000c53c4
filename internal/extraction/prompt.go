package extraction

import (
	"google.golang.org/genai"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

// Field names shared by the response schema and the parser.
const (
	fieldDate        = "date"
	fieldDescription = "description"
	fieldAmount      = "amount"
	fieldCategory    = "category"
)

var requiredFields = []string{fieldDate, fieldDescription, fieldAmount, fieldCategory}

// Instruction is the fixed prompt sent alongside every statement.
const Instruction = "You are an expert financial analyst. Analyze the provided bank statement PDF.\n" +
	"Extract every transaction, including its date, description, and amount.\n" +
	"For each transaction, determine if it is a credit (income) or a debit (expense).\n" +
	"Finally, categorize each transaction into one of the specified categories.\n\n" +
	"Provide the output as a valid JSON array of objects, conforming strictly to the provided schema.\n" +
	"Ensure that amounts for expenses are represented as negative numbers, and income as positive numbers.\n" +
	"Return ONLY the JSON array. Do NOT add any prose or wrap it in code fences.\n"

// ResponseSchema describes the only response shape the parser accepts:
// an array of objects with four required fields and an enumerated category.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				fieldDate: {
					Type:        genai.TypeString,
					Description: "Transaction date in YYYY-MM-DD format.",
				},
				fieldDescription: {
					Type:        genai.TypeString,
					Description: "A brief description of the transaction.",
				},
				fieldAmount: {
					Type:        genai.TypeNumber,
					Description: "The transaction amount. Use negative numbers for debits/expenses and positive numbers for credits/income.",
				},
				fieldCategory: {
					Type:        genai.TypeString,
					Enum:        domain.CategoryNames(),
					Description: "The category of the transaction.",
				},
			},
			Required:         requiredFields,
			PropertyOrdering: requiredFields,
		},
	}
}
