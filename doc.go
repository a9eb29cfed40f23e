// Package grip is a multi-pointer gesture recognition engine for [Ebitengine].
//
// Grip turns raw mouse and touch input into high-level gesture events — pan,
// pinch, rotate, tap, press, move, and wheel — dispatched to the surfaces
// they happen on. Recognition is fully synchronous: every event a gesture
// emits is delivered before the input call that caused it returns.
//
// # Quick start
//
// Create a [Manager], register gesture templates, build surfaces under
// [Manager.Root], and bind gestures to them:
//
//	man := grip.NewManager()
//	man.Register("drag", grip.PanOptions())
//	man.Register("zoom", grip.PinchOptions())
//
//	card := grip.NewSurface("card", grip.Rect{X: 40, Y: 40, Width: 200, Height: 120})
//	man.Root().AddChild(card)
//	man.Bind(card, "drag", "zoom")
//
//	card.On("drag", func(e *grip.Event) {
//		card.X += e.DeltaX
//		card.Y += e.DeltaY
//	})
//
// Then call [Manager.Update] once per frame from your [ebiten.Game]:
//
//	type Game struct{ man *grip.Manager }
//
//	func (g *Game) Update() error { g.man.Update(); return nil }
//
// # Phases and event names
//
// Multi-phase gestures fire under suffixed names: "dragStart" when the
// threshold is crossed, "drag" while ongoing, "dragEnd" on release, and
// "dragCancel" on forced termination. Single-shot gestures (tap, wheel) fire
// under the bare template name. Handlers can also register on the bare name
// and switch on [Event.Phase].
//
// Events bubble from the hit surface up through its ancestors to the root;
// call [Event.StopPropagation] from a handler to stop the walk.
//
// # Feeding input directly
//
// [Manager.Update] polls Ebitengine, but nothing in recognition depends on
// it. Tests and non-Ebitengine hosts can push synthesized pointer samples
// through [Manager.Mux] and drive timers with [Manager.SetClock]:
//
//	man.Mux().Press(0, 100, 100, grip.PointerMouse, grip.MouseButtonLeft, 0)
//	man.Mux().Move(0, 130, 100, 0)
//	man.Mux().Release(0, 130, 100, 0)
//
// # Mutual exclusion
//
// A template's Excludes list names gestures that mute it while they are
// active on the same surface: a pan that excludes "hover" keeps move events
// quiet for the duration of the drag. Query the live picture with
// [Manager.IsActive] and [Manager.ActiveGestures], or read the
// [Event.Active] snapshot carried on every event.
//
// [Ebitengine]: https://ebitengine.org
package grip
