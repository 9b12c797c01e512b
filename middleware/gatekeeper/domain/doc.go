// Package domain define contratos e tipos de domínio do pipeline de admissão.
//
// Este pacote não depende do transporte (Telegram, HTTP, etc.) nem de
// implementações concretas. A intenção é permitir testes de unidade puros e
// desacoplar as regras de proteção dos detalhes de infraestrutura.
package domain
