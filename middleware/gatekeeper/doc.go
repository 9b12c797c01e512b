// Package gatekeeper fornece o middleware de admissão que protege o
// dispatcher de um bot contra flood, spam e abuso de comandos.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de transporte)
//   - application: caso de uso (avaliação sequencial dos estágios) sem transporte
//   - infra: implementações concretas (janela deslizante, cooldowns,
//     histórico de conteúdo, escalonamento), detalhes de infraestrutura
//   - gatekeeper (este pacote): middlewares + extração de facetas do texto +
//     tradução do veredito para avisos ao usuário
//
// Fluxo no dispatcher:
//
//  1. Extrai as facetas do evento (usuário, comando, conteúdo normalizado)
//  2. Chama a camada application para obter o veredito
//  3. Se negado, emite o aviso correspondente via Sender e encerra
//  4. Se admitido, chama o próximo handler (a lógica de negócio do bot)
//
// A ordem de registro dos middlewares importa: logging por fora, depois a
// cadeia de proteção, depois atividade, e por fim o handler protegido.
package gatekeeper
