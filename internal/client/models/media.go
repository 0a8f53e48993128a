// Package models defines the client-side data shapes for the ReelFlow feed:
// users, comments and media items. Items are constructed from server records
// and mutated in place only by the interaction coordinator; they have no
// persistence of their own.
package models

import "time"

// User is a weak reference to an account. The client never mutates it.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Comment is a single feed comment. The sequence of comments on an item is
// append-only and owned by the server; the client only ever replaces the
// whole sequence with an authoritative one.
type Comment struct {
	Author     User      `json:"author"`
	Text       string    `json:"text"`
	InsertedAt time.Time `json:"insertedAt"`
}

// MediaItem is one video post in a feed.
//
// Likes is a set of user ids (no duplicates, order irrelevant).
// MediaURL and CreatedAt are immutable once the item exists client-side.
type MediaItem struct {
	ID          string    `json:"id"`
	Owner       User      `json:"owner"`
	Description string    `json:"description"`
	MediaURL    string    `json:"mediaUrl"`
	Likes       []string  `json:"likes"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LikedBy reports whether the given user id is in the like set.
func (m *MediaItem) LikedBy(userID string) bool {
	for _, id := range m.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// LikeCount returns the number of distinct users who liked the item.
func (m *MediaItem) LikeCount() int {
	return len(m.Likes)
}

// CommentCount returns the number of comments on the item.
func (m *MediaItem) CommentCount() int {
	return len(m.Comments)
}

// SetLikes replaces the like set with the given ids, dropping duplicates
// while keeping the first occurrence of each id. Server responses are
// expected to be duplicate-free already; this keeps the set invariant even
// when they are not.
func (m *MediaItem) SetLikes(ids []string) {
	seen := make(map[string]struct{}, len(ids))
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		next = append(next, id)
	}
	m.Likes = next
}
