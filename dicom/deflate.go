// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dicom

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// The deflated transfer syntax compresses everything following the File Meta group with raw
// DEFLATE (RFC 1951), without zlib or gzip framing.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.5

// inflate returns a reader of the decompressed bytes of r
func inflate(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}

// deflate returns a writer compressing to w. The returned writer must be closed to flush the
// final block.
func deflate(w io.Writer) (io.WriteCloser, error) {
	fw, err := flate.NewWriter(w, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("creating deflate writer: %w", err)
	}
	return fw, nil
}
