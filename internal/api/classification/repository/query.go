package classificationRepository

const (
	queryCreateExample = `
		INSERT INTO training_examples (
			id,
			text,
			category,
			created_by,
			created_at
		) VALUES (
			:id,
			:text,
			:category,
			:created_by,
			:created_at
		)
	`

	queryListExamples = `
		SELECT
			id,
			text,
			category,
			created_by,
			created_at
		FROM training_examples
		ORDER BY created_at ASC, id ASC
	`
)
