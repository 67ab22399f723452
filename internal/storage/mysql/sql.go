package mysql

// Conversations are keyed by (kind, subject): kind 'user' with the user id
// as subject, or kind 'anon' with an empty subject for the shared anonymous
// bucket. The unique key makes FindOrCreate race-safe.
const insertConversationSQL = `
INSERT INTO conversations (kind, subject)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)
`

const selectConversationSQL = `
SELECT id FROM conversations WHERE kind = ? AND subject = ?
`

const insertMessageSQL = `
INSERT INTO messages (conversation_id, role, content)
VALUES (?, ?, ?)
`

// Insertion order; id is monotonic within a conversation.
const listMessagesSQL = `
SELECT m.role, m.content, m.created_at
FROM messages m
JOIN conversations c ON c.id = m.conversation_id
WHERE c.kind = ? AND c.subject = ?
ORDER BY m.id ASC
`

// Schema lives in migrations/001_init.sql.
