// Package glslang is the boundary to the external glslangValidator binary:
// locating it, staging shader records into temp files, invoking it, and
// parsing its textual output into diagnostics.
package glslang
