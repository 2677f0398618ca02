// Package models defines the persisted domain types for Splitledger.
//
// Monetary amounts are money.Money everywhere (integer cents); no model
// carries a float. Identifiers are UUID strings. The engine-facing
// projection of an expense lives in internal/ledger as ExpenseFact; the
// storage layer converts between the two.
package models
