// Package fuzztests houses Go fuzz harnesses for the formatting pipeline
// (source -> lexer -> format). Its goal is to smoke test robustness and guard
// against panics on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер и обе
// стратегии форматирования.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
