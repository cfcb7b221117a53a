// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pbdb

import (
	"fmt"
	"strings"
)

// Kind of a failure, see Error.
type Kind int

// Values of Kind.
const (
	// InvalidArgument is a malformed parameter, detected before any network call.
	InvalidArgument Kind = iota + 1
	// TransportError is a failure to complete the HTTP request.
	TransportError
	// RemoteError is a failure reported by the service, either as an HTTP status
	// or as an error object in a successful response.
	RemoteError
	// DecodeError is a response body which is not a table.
	DecodeError
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case TransportError:
		return "transport error"
	case RemoteError:
		return "remote error"
	case DecodeError:
		return "decode error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the error type returned by all the API calls in this package.
type Error struct {
	Kind    Kind
	URI     string // the request URI; empty for InvalidArgument
	Status  int    // HTTP status code, if the service returned one
	Message string // the service's own message, when available
	Cause   error  // the underlying error, if any
}

var _ error = &Error{}

func (e *Error) Error() string {
	parts := []string{e.Kind.String()}
	if e.URI != "" {
		parts = append(parts, "uri="+e.URI)
	}
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.Status))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// KindOf finds the first *Error in the chain of err and returns its Kind. The
// second value is false if there is no *Error in the chain.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0, false
		}
		err = u.Unwrap()
	}
	return 0, false
}

func isKind(err error, k Kind) bool {
	kind, ok := KindOf(err)
	return ok && kind == k
}

// IsInvalidArgument checks if err is an InvalidArgument error.
func IsInvalidArgument(err error) bool { return isKind(err, InvalidArgument) }

// IsTransport checks if err is a TransportError.
func IsTransport(err error) bool { return isKind(err, TransportError) }

// IsRemote checks if err is a RemoteError.
func IsRemote(err error) bool { return isKind(err, RemoteError) }

// IsDecode checks if err is a DecodeError.
func IsDecode(err error) bool { return isKind(err, DecodeError) }
