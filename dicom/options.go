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
	"github.com/rs/zerolog"
)

// DefaultMaxDepth is the default limit of nested sequences
const DefaultMaxDepth = 256

// Option configures a Decoder or an Encoder. Options that only concern one direction are ignored
// by the other.
type Option func(*options)

type options struct {
	dictionary       TagDictionary
	vrs              VRTable
	maxDepth         int
	allowOddLengths  bool
	groupLengths     GroupLengthPolicy
	sequenceLengths  sequenceLengthPolicy
	checkImplicitVRs bool
	warningHandler   func(*Error)
	logger           zerolog.Logger
}

func newOptions(opts ...Option) *options {
	o := &options{
		dictionary: StandardDictionary,
		vrs:        StandardVRs,
		maxDepth:   DefaultMaxDepth,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDictionary sets the TagDictionary used to resolve VRs in the implicit VR syntax.
// The default is StandardDictionary.
func WithDictionary(d TagDictionary) Option {
	return func(o *options) {
		o.dictionary = d
	}
}

// WithVRTable sets the VRTable used to resolve VR codes read in the explicit VR syntaxes.
// The default is StandardVRs.
func WithVRTable(t VRTable) Option {
	return func(o *options) {
		o.vrs = t
	}
}

// WithMaxDepth limits how deeply sequences may be nested before decoding fails with
// ErrNestingTooDeep. The default is DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// AllowOddLengths accepts data elements of odd defined length instead of failing with
// ErrOddLengthUnpadded
var AllowOddLengths Option = func(o *options) {
	o.allowOddLengths = true
}

// CheckImplicitVRs compares the VR of each element written in the implicit VR syntax with the
// dictionary and reports ErrVRMismatch advisories to the warning handler
var CheckImplicitVRs Option = func(o *options) {
	o.checkImplicitVRs = true
}

// WithWarningHandler sets a function called with every advisory (ErrUndictionariedTag,
// ErrVRMismatch, ErrReservedNotZero). Advisories never abort decoding or encoding.
func WithWarningHandler(handler func(*Error)) Option {
	return func(o *options) {
		o.warningHandler = handler
	}
}

// WithLogger sets the logger of the codec. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// GroupLengthPolicy selects how group length elements (gggg,0000) are treated
type GroupLengthPolicy int

const (
	// PreserveGroupLengths decodes and encodes group lengths verbatim like any other element
	PreserveGroupLengths GroupLengthPolicy = iota

	// RecomputeGroupLengths replaces the value of each group length element present in an encoded
	// DataSet by the byte count of the other elements of its group
	RecomputeGroupLengths

	// OmitGroupLengths excludes group length elements when decoding and encoding
	OmitGroupLengths
)

// WithGroupLengths sets the GroupLengthPolicy. The default is PreserveGroupLengths.
func WithGroupLengths(policy GroupLengthPolicy) Option {
	return func(o *options) {
		o.groupLengths = policy
	}
}

// DropGroupLengths will exclude all group length elements (gggg,0000) from decoded and encoded
// DataSets
var DropGroupLengths = WithGroupLengths(OmitGroupLengths)

// warn reports an advisory to the logger and to the warning handler
func (o *options) warn(e *Error) {
	o.logger.Warn().
		Str("tag", e.Tag.String()).
		Int64("offset", e.Offset).
		Msg(e.Error())
	if o.warningHandler != nil {
		o.warningHandler(e)
	}
}

// dictionaryVR returns the VR of tag for the implicit VR syntax. Tags absent from the dictionary
// are read as UN.
func (o *options) dictionaryVR(tag DataElementTag, offset int64) *VR {
	if entry, ok := o.dictionary.ByTag(tag); ok && entry.VR != nil {
		return entry.VR
	}
	o.warn(newError(ErrUndictionariedTag, tag, offset, "reading as %v", UNVR))
	return UNVR
}
