// Package generation defines the boundary between the application and the
// remote text-generation service that produces species care tips.
//
// The TipGenerator interface is the only thing the rest of the application
// depends on. It takes a single composed prompt and returns free-form text.
// BuildPrompt composes that prompt deterministically from catalog data, and
// ParseTips turns the returned text into an ordered list of tips.
package generation
