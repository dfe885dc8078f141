// Copyright 2024 The Ferret Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scoring

import "github.com/ferret-search/ferret/docset"

// Scorer is a DocSet that also exposes a relevance score for the document
// it currently sits on, per spec §4.8: "A Scorer is a DocSet plus
// score() -> f32".
type Scorer interface {
	docset.DocSet
	Score() float32
}
