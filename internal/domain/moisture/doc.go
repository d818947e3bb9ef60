// Package moisture contains core domain types for soil-moisture evaluation.
//
// It defines Reading (a raw ADC sample), the Wet/Dry State, the configurable
// threshold Polarity, a pure Evaluator, and Transition helpers for detecting
// drying and recovery between consecutive polls.
package moisture
