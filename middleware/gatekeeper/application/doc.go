// Package application contém o caso de uso central do pipeline: avaliar um
// evento contra os estágios de proteção, em ordem fixa, e produzir um
// Verdict.
//
// Ele depende apenas do pacote domain e não conhece o transporte.
package application
