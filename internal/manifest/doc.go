// Package manifest is the schema declaration surface: it loads record
// schemas from HCL manifest files and declares them into a registry.
//
// A manifest declares records like:
//
//	record "user" {
//	  extends = "principal"
//
//	  field "name" {
//	    type      = string
//	    non_empty = true
//	    trim      = true
//	  }
//
//	  field "age" {
//	    type     = int
//	    optional = true
//	    min      = 0
//	  }
//
//	  field "manager" {
//	    type     = record(user)
//	    optional = true
//	  }
//	}
//
// Records are declared in file order (files sorted lexically), so a parent
// record must appear before any record that extends it.
package manifest
