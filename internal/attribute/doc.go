// Package attribute defines the domain types for tracked user attributes:
// masters (the definition of one trackable category of user information,
// with its judgment and extraction prompts), records (stored values,
// identified by a monotonically assigned sequence number), and the ordered
// name-to-content context assembled for response generation.
package attribute
