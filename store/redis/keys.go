package redis

// Redis key naming conventions for runway data.
// All keys are prefixed with "runway:" to avoid collisions.

const keyPrefix = "runway:"

// sessionKey returns the key for a session record: runway:session:{id}
func sessionKey(id string) string { return keyPrefix + "session:" + id }

// sessionIndexKey is the Sorted Set of session IDs scored by update time.
const sessionIndexKey = keyPrefix + "session_idx"

// sessionUserKey returns the Sorted Set of one user's session IDs scored
// by update time: runway:user_sessions:{userID}
func sessionUserKey(userID string) string { return keyPrefix + "user_sessions:" + userID }

// eventKey returns the key for a published event: runway:event:{id}
func eventKey(id string) string { return keyPrefix + "event:" + id }

// eventBySessionKey maps a session ID to its published event ID:
// runway:event_by_session:{sessionID}
func eventBySessionKey(sessionID string) string {
	return keyPrefix + "event_by_session:" + sessionID
}
