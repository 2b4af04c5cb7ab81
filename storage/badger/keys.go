package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/sanare-ai/docpilot/core"
)

// Key segments are joined with ':'. Tenant IDs never contain ':'
// (core.ValidateTenantID), so one tenant's prefix can never cover
// another tenant's keys.

// Key prefixes for different data types
const (
	chunkPrefix        = "docchk"
	jobPrefix          = "onbjob"
	conversationPrefix = "convrec"
	messagePrefix      = "convmsg"
	feedbackPrefix     = "fback"
)

// makeChunkKey generates a key for a chunk scoped to its tenant.
// Format: prefix:tenant:id
func makeChunkKey(tenantID string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", chunkPrefix, tenantID, id))
}

// makeTenantChunkPrefix generates the iteration prefix covering every
// chunk of one tenant and no other.
func makeTenantChunkPrefix(tenantID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", chunkPrefix, tenantID))
}

// makeJobKey generates a key for an onboarding job by ID.
func makeJobKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", jobPrefix, id))
}

// makeConversationKey generates a key for a conversation by ID.
func makeConversationKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", conversationPrefix, id))
}

// makeMessageKey generates a composite key for a conversation message.
// Format: prefix:conversationID:timestamp:id, with timestamp and id
// written BigEndian so lexicographic iteration yields chronological order.
func makeMessageKey(conversationID string, timestamp time.Time, id core.ID) []byte {
	prefix := []byte(fmt.Sprintf("%s:%s:", messagePrefix, conversationID))
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeConversationMessagePrefix generates the iteration prefix covering
// all messages of one conversation.
func makeConversationMessagePrefix(conversationID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", messagePrefix, conversationID))
}

// makeFeedbackKey generates a composite key for a feedback entry.
// Format: prefix:tenant:timestamp:id, BigEndian for chronological iteration.
func makeFeedbackKey(tenantID string, timestamp time.Time, id core.ID) []byte {
	prefix := []byte(fmt.Sprintf("%s:%s:", feedbackPrefix, tenantID))
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeTenantFeedbackPrefix generates the iteration prefix covering one
// tenant's feedback entries.
func makeTenantFeedbackPrefix(tenantID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", feedbackPrefix, tenantID))
}
