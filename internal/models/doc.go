// Package models defines the core domain models for the split ledger.
//
// # Stored Models
//
//   - Group: a set of members plus the member who created it
//   - Member: a person in a group (id, display name, email)
//   - Expense: one payment by a member, split among members
//   - Split: the portion of one expense owed by one member
//   - User: a registered account, the identity behind a Member
//
// # Derived Models
//
// Balance and Transfer are never persisted. They are recomputed from a
// group's expenses every time they are needed.
//
// # Design Principles
//
// 1. **Integer money**: every amount is money.Cents, decimals only at the API boundary
// 2. **Append-only history**: expenses are immutable; corrections are new expenses
// 3. **Avoid circular references**: relationships use ID strings, not pointers
// 4. **Stable ordering**: group members keep insertion order, which breaks settlement ties
package models
