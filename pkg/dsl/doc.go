/*
Package dsl provides a fluent Go builder for animator definitions.

It is the programmatic alternative to YAML or JSON definition files, handy for
tests, generated content and IDE-assisted authoring.

Example usage:

	b := dsl.New("hero")
	b.Bool("run")
	b.Trigger("attack")

	base := b.Layer("base")
	base.State("Idle").Length(1).Loop().
		To("Run").When("run").Duration(0.2)
	base.State("Run").Length(0.5).Loop().
		To("Idle").Unless("run").Duration(0.1)
	base.Any("Attack").When("attack").Fixed(0.05)
	base.State("Attack").Length(0.6).Event(0.3, "hit")

	def := b.Definition()
	anim, err := keyframe.New(def)

The first state added to a layer is its default state unless Default is called.
States default to speed 1.
*/
package dsl
