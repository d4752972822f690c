// Package service implements business logic for the elkbridge adapter.
//
// This package provides the service layer between the command-line surface
// and the repository layer, implementing the upload, query, staging and
// parsing rules.
//
// # Services
//
// FamilyService manages LAPW basis families: uploading species file
// directories with content-hash deduplication, listing families with element
// coverage filters, and resolving the species files a calculation needs.
//
// CalcService prepares calculation jobs (elk.in generation plus the staging
// manifest handed to the workflow engine) and parses retrieved output
// directories into result records.
//
// # Design Principles
//
// - Services own business logic and validation
// - Repository pattern for data access; caller identity passed explicitly
// - Upload writes are all-or-nothing within one transaction
// - Context-aware for cancellation and timeouts
package service
