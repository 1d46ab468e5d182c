// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import "code.hybscloud.com/link/lnkerr"

// Package-local aliases of the lnkerr sentinels this package returns.
var (
	errTooLong          = lnkerr.ErrTooLong
	errConnectionReset  = lnkerr.ErrConnectionReset
	errInvalidArgument  = lnkerr.ErrInvalidArgument
)
