// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Bump migrates Python code from pydantic v1 to pydantic v2.
//
// Usage:
//
//	bump [flags] path
//
// Bump rewrites every Python file under path, which may be a project
// directory or a single file. For example, to see what would change
// in the project in the current directory:
//
//	bump --diff .
//
// By default, bump writes changes back to the disk.
// The --diff flag causes bump to print a diff of the intended changes instead.
//
// # Models
//
// Most rules apply only to classes that are pydantic models: classes
// inheriting, directly or through any number of other classes, from
// pydantic's BaseModel. Bump first reads every file of the project to
// learn which classes are models, so a model whose base class is
// defined in another file is still found. A class whose base cannot
// be resolved, such as one imported with a wildcard import, is not
// treated as a model.
//
// Classes that inherit from a model but must be left alone can be
// listed by fully-qualified name under known-non-models in the config
// file. Their subclasses are left alone too.
//
// # Rules
//
// Each rule has a code. Rules run in this order, each one seeing the
// output of the previous one:
//
//	BP001  add a default None to Optional, Union[..., None] and Any fields
//	BP002  replace the Config class by a model_config attribute
//	BP008  replace con* functions by Annotated types
//	BP003  rename the Field keywords that changed
//	BP004  import the names that moved out of pydantic from their new packages
//	BP005  replace GenericModel by BaseModel
//	BP006  replace __root__ fields by RootModel
//	BP007  replace @validator and @root_validator
//
// Imports the rewritten code needs are added, and imports it no longer
// uses are removed, after all rules have run.
//
// Code that cannot be rewritten mechanically, such as a Config class
// with methods or a validator taking *args, is left alone and marked
// with a comment starting with "# TODO[pydantic]:". Running bump again
// does not repeat a marker.
//
// The --disable flag turns rules off:
//
//	bump --disable BP001,BP007 .
//
// # Flags
//
//	--diff            print diffs instead of writing files
//	--disable codes   disable the named rules
//	--exclude glob    skip files whose path relative to the project root
//	                  matches glob; ** matches any number of directories
//	--log-file file   append per-file errors to file
//	--jobs n          process n files in parallel
//	--target-version  pydantic version being migrated to (default v2.0.4)
//	--config file     read settings from file
//	--color mode      colorize diffs: auto, always or never
//	--verbose         log debug messages
//
// # Config file
//
// Settings are read from .bump.yaml in the project root when it
// exists. Flags given on the command line override it:
//
//	disable: [BP001]
//	exclude:
//	  - "**/migrations/**"
//	jobs: 4
//	target-version: v2.4.0
//	log-file: bump.log
//	known-non-models:
//	  - app.models.Base
//
// # Exit status
//
// Bump exits 0 when every file was migrated, 1 when some file could not
// be read, parsed or rewritten, 2 for a bad command line or config
// file, and 3 when --diff found files to migrate. A file that fails
// never stops the others from being migrated.
package main
