/* Copyright 2025 notectl Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package output

import "sort"

// DefaultIcon is the glyph used for an unknown icon name. The icon set is
// closed; a name outside it falls back instead of failing.
const DefaultIcon = "•"

var iconGlyphs = map[string]string{
	"Folder":       "🗀",
	"Briefcase":    "💼",
	"Home":         "🏠",
	"Star":         "★",
	"Heart":        "♥",
	"Book":         "📖",
	"Music":        "♪",
	"Camera":       "📷",
	"ShoppingCart": "🛒",
	"Coffee":       "☕",
	"Plane":        "✈",
	"Gift":         "🎁",
}

// IconGlyph returns the terminal glyph for the given icon name, falling back
// to DefaultIcon for a name outside the known set
func IconGlyph(name string) string {
	if glyph, ok := iconGlyphs[name]; ok {
		return glyph
	}

	return DefaultIcon
}

// ValidIcon reports whether the given icon name belongs to the known set
func ValidIcon(name string) bool {
	_, ok := iconGlyphs[name]
	return ok
}

// IconNames returns the known icon names, for input validation messages
func IconNames() []string {
	names := make([]string, 0, len(iconGlyphs))
	for name := range iconGlyphs {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
