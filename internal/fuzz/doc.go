
// Package fuzztests houses Go fuzz harnesses for the fix engine
// (compiler output -> diagnostics -> edits -> new text). Its goal is to smoke
// test robustness and guard against panics and corrupted splices on arbitrary
// inputs.
//
// Назначение: прогонять произвольный вывод компилятора и произвольный текст
// через парсер диагностик, синтез правок и их применение.
//
// Не делает: запуск компилятора, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/diag, internal/fix, internal/testkit.

package fuzztests
