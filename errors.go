/*
Copyright (C) 2025 [GrainArc]

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package GeoIndex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind 错误类别
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindFormat
	KindInvalidBand
	KindShapeMismatch
)

// String 返回错误类别名称
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindFormat:
		return "FormatError"
	case KindInvalidBand:
		return "InvalidBand"
	case KindShapeMismatch:
		return "ShapeMismatch"
	default:
		return "Unknown"
	}
}

// Code 返回错误码
func (k ErrorKind) Code() string {
	switch k {
	case KindNotFound:
		return "ERR_201_RASTER_NOT_FOUND"
	case KindFormat:
		return "ERR_202_RASTER_FORMAT"
	case KindInvalidBand:
		return "ERR_401_INVALID_BAND"
	case KindShapeMismatch:
		return "ERR_402_SHAPE_MISMATCH"
	default:
		return "ERR_500_INTERNAL"
	}
}

// RasterError 栅格处理错误
type RasterError struct {
	Kind    ErrorKind
	Op      string // 出错的操作，如 open / read_band / write_band
	Path    string
	Message string
	Cause   error
	Details map[string]string
}

// 用于 errors.Is 判断的哨兵错误
var (
	ErrNotFound      = &RasterError{Kind: KindNotFound}
	ErrFormat        = &RasterError{Kind: KindFormat}
	ErrInvalidBand   = &RasterError{Kind: KindInvalidBand}
	ErrShapeMismatch = &RasterError{Kind: KindShapeMismatch}
)

func (e *RasterError) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(e.Kind.Code())
	sb.WriteString("]")
	if e.Op != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Op)
	}
	if e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Path)
	}
	if e.Op != "" || e.Path != "" {
		sb.WriteString(":")
	}
	sb.WriteString(" ")
	if e.Message != "" {
		sb.WriteString(e.Message)
	} else {
		sb.WriteString(e.Kind.String())
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap 返回底层错误
func (e *RasterError) Unwrap() error {
	return e.Cause
}

// Is 按类别匹配，使 errors.Is(err, ErrInvalidBand) 生效
func (e *RasterError) Is(target error) bool {
	t, ok := target.(*RasterError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithDetail 附加键值信息
func (e *RasterError) WithDetail(key, value string) *RasterError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

func newRasterError(kind ErrorKind, op, path string, cause error, format string, args ...interface{}) *RasterError {
	return &RasterError{
		Kind:    kind,
		Op:      op,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// KindOf 返回错误链中第一个 RasterError 的类别，没有则返回 0
func KindOf(err error) ErrorKind {
	var re *RasterError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}
