// Package codec translates between elkbridge's domain types and the file
// formats at its boundaries: YAML structure and run-parameter documents on
// the way in, the elk.in control file written into a job directory, and the
// fixed-name .OUT files ELK leaves behind on the way out.
package codec
