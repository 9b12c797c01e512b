// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - Window: janela deslizante de timestamps por usuário
//   - Cooldown: última utilização por (usuário, comando)
//   - SpamGuard: histórico de conteúdo por usuário
//   - Warnings: contador de violações consecutivas por usuário
//   - PacedSender: sender com ritmo limitado via golang.org/x/time/rate
//   - MemoryStatsStore / RedisStatsStore: estatísticas de admissão
package infra
