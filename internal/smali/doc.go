// Package smali recognises the narrow pattern vocabulary binderscope
// needs from baksmali output. It is not a disassembler: it consumes
// already-disassembled text and extracts three things, each through its
// own scanner stage producing typed records:
//
//   - TRANSACTION_* constant declarations from a Stub class
//     (ScanTransactionFields)
//   - a named public method's declaration-through-prologue block from a
//     Stub$Proxy class (FindMethodBlock)
//   - .param name annotations inside such a block (ScanParamNames)
//
// Keeping the stages separate makes each failure point independently
// testable; the extractor composes them.
package smali
