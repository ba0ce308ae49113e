// Package frosttest provides an element testing harness for Frost.
//
// # Quick Start
//
// Create a tester, pump a widget, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := frosttest.NewTester(t)
//	    tester.PumpWidget(Counter{})
//
//	    tester.Tap(frosttest.ByType[elements.Button]())
//
//	    if !tester.Find(frosttest.ByText("count: 1")).Exists() {
//	        t.Error("expected incremented count")
//	    }
//	}
//
// # Ticker Testing
//
// Tickers run against the tester's fake clock. Advance releases parked
// timers and pumps the resulting rebuild:
//
//	tester.Advance(time.Second)
//
// # Messages
//
// The tester runs a real message bus with the runtime's wiring, so
// handlers registered with bus.Register receive messages published in
// tests:
//
//	tester.Bus().Send(ButtonClicked{ID: "save"})
//	tester.PumpAndSettle(time.Second)
package frosttest
