// Copyright 2024 FortesenseLabs
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package quant

import "math"

// NewQuantizedCauchy builds a Table approximating a Cauchy(loc, scale)
// distribution over the contiguous alphabet [lower, upper], used by the
// end-to-end scenarios of spec.md section 8 (items 4 and 5). Both the
// CDF and its exact inverse are closed-form here, so unlike
// NewQuantizedGaussian the seed passed to NewCustomModel is not merely
// approximate -- the ±1 correction search still runs, since Table never
// special-cases an "exact" hint per spec.md section 9.
func NewQuantizedCauchy(loc, scale float64, lower, upper int32, precision uint32) (*Table, error) {
	if scale <= 0 {
		return nil, ErrInvalidAlphabet
	}
	cdf := func(x float64) float64 {
		return 0.5 + math.Atan((x-loc)/scale)/math.Pi
	}
	inv := func(q float64) float64 {
		return loc + scale*math.Tan(math.Pi*(q-0.5))
	}
	return NewCustomModel(cdf, inv, lower, upper, precision)
}
