package conversationRepository

const messageColumns = `
			id,
			external_id,
			body,
			message_type,
			sent_at,
			sender_name,
			sender_number,
			sender_id,
			chat_id,
			chat_name,
			is_group,
			participants_count,
			category,
			confidence,
			created_at
`

const (
	queryCreateMessage = `
		INSERT INTO messages (` + messageColumns + `) VALUES (
			:id,
			:external_id,
			:body,
			:message_type,
			:sent_at,
			:sender_name,
			:sender_number,
			:sender_id,
			:chat_id,
			:chat_name,
			:is_group,
			:participants_count,
			:category,
			:confidence,
			:created_at
		)
	`

	queryCountByCategory = `
		SELECT
			category,
			COUNT(*) AS total
		FROM messages
		GROUP BY category
	`

	queryListByCategory = `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE category = :category
		ORDER BY sent_at ASC, id ASC
	`

	queryListBySender = `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE LOWER(sender_name) LIKE :pattern
		ORDER BY sent_at DESC, id DESC
		LIMIT :limit
	`

	queryListAll = `
		SELECT ` + messageColumns + `
		FROM messages
		ORDER BY sent_at ASC, id ASC
	`
)
